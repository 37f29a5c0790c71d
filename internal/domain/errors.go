package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// ProviderError is a non-success response from the external video metadata provider.
// The affected batch is skipped and its videos stay unprocessed.
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("metadata provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("metadata provider error (status %d)", e.StatusCode)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError reports an unparseable timestamp on a single record.
type ParseError struct {
	VideoID string
	Field   string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("video %s: cannot parse %s %q: %v", e.VideoID, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
