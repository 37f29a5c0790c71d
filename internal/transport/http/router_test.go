package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/live-redirect-api/internal/config"
	appmiddleware "github.com/live-redirect-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T, apiKeyHash string) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg := &config.Config{
		AllowedOrigins:         []string{"*"},
		LiveCacheTTL:           5 * time.Minute,
		LiveCacheRetentionDays: 3,
		BucketRetentionDays:    7,
		WebSubRetryDelay:       time.Minute,
		AdminAPIKeyHash:        apiKeyHash,
	}
	return NewRouter(ctx, cfg, &Deps{})
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter(t, "")

	rr := do(r, httptest.NewRequest(http.MethodGet, "/api/health-check/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(r, httptest.NewRequest(http.MethodGet, "/websub-callback?hub.mode=subscribe&hub.challenge=xyz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "xyz", rr.Body.String())

	rr = do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_AdminRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t, "")
	for _, path := range []string{
		"/api/websub/subscribe-all",
		"/api/websub/subscribe-one?channel_id=UC1",
		"/api/maintenance/clean-live-cache",
	} {
		rr := do(r, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRouter_AdminKeyReachesHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("ops-key"), bcrypt.MinCost)
	require.NoError(t, err)
	r := newTestRouter(t, string(hash))

	req := httptest.NewRequest(http.MethodPost, "/api/maintenance/clean-live-cache", strings.NewReader(`{"mode":"everything"}`))
	req.Header.Set(appmiddleware.APIKeyHeader, "ops-key")
	rr := do(r, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "dry-run")
}
