package domain

// RoleAdmin is the only role allowed to run maintenance and hub subscription endpoints.
const RoleAdmin = "admin"
