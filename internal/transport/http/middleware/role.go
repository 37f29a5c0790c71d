package middleware

import (
	"log/slog"
	"net/http"
)

// RequireRole allows the request through only when the authenticated role is one of allowedRoles.
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range allowedRoles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			slog.Warn("role rejected", "subject", claims.Subject, "role", claims.Role, "path", r.URL.Path)
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}
