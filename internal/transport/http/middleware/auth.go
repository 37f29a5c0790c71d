package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/live-redirect-api/internal/domain"
	jwtinfra "github.com/live-redirect-api/internal/infrastructure/jwt"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const claimsKey contextKey = "claims"

// APIKeyHeader carries the static admin key for callers that cannot hold a JWT, such as schedulers.
const APIKeyHeader = "X-API-Key"

// apiKeySubject is the subject recorded for requests authenticated by the static key.
const apiKeySubject = "api-key"

// Auth accepts either a Bearer RS256 JWT or the admin API key whose bcrypt hash is apiKeyHash.
// A nil provider disables JWT auth; an empty hash disables key auth.
func Auth(provider *jwtinfra.Provider, apiKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get(APIKeyHeader); key != "" {
				if apiKeyHash == "" || bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(key)) != nil {
					writeJSONError(w, http.StatusUnauthorized, "invalid api key")
					return
				}
				claims := &jwtinfra.Claims{Role: domain.RoleAdmin}
				claims.Subject = apiKeySubject
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if provider == nil || !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ClaimsFromContext extracts the authenticated claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}
