package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/live-redirect-api/internal/application/livecache"
	"github.com/live-redirect-api/internal/application/livestatus"
	"github.com/live-redirect-api/internal/application/notifyqueue"
	"github.com/live-redirect-api/internal/application/retention"
	"github.com/live-redirect-api/internal/application/subscription"
	"github.com/live-redirect-api/internal/config"
	"github.com/live-redirect-api/internal/domain"
	jwtinfra "github.com/live-redirect-api/internal/infrastructure/jwt"
	"github.com/live-redirect-api/internal/transport/http/handler"
	appmiddleware "github.com/live-redirect-api/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
// Archive, Notifier and JWTProvider are optional and stay nil when not configured.
type Deps struct {
	NotifyQueueRepo NotifyQueueRepository
	LiveCacheRepo   LiveCacheRepository
	Channels        ChannelDirectory
	Videos          VideoProvider
	Hub             Hub
	Archive         ObjectArchive
	Notifier        Publisher
	JWTProvider     *jwtinfra.Provider
}

// NewRouter builds and returns the application router. ctx bounds background work
// started by middleware.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmiddleware.APIKeyHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Hubs deliver in bursts when many channels publish at once.
	callbackRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(20), 50)

	queueSvc := notifyqueue.NewService(deps.NotifyQueueRepo)
	cacheStore := livecache.NewStore(deps.LiveCacheRepo)
	reconciler := livecache.NewReconciler(
		queueSvc,
		livestatus.NewResolver(deps.Videos),
		deps.Channels,
		cacheStore,
		cfg.LiveCacheRetentionDays,
	)
	cacheSvc := livecache.NewService(cacheStore, reconciler, cfg.LiveCacheTTL)
	retentionSvc := retention.NewService(
		[]retention.Bucket{deps.LiveCacheRepo, deps.NotifyQueueRepo},
		cfg.BucketRetentionDays,
		deps.Archive,
		deps.Notifier,
	)
	policy := subscription.DefaultPolicy()
	policy.RetryDelay = cfg.WebSubRetryDelay
	subSvc := subscription.NewService(deps.Hub, deps.Channels, deps.Notifier, policy, cfg.WebSubRequestGap)

	healthH := handler.NewHealthHandler(deps.LiveCacheRepo)
	webSubH := handler.NewWebSubHandler(queueSvc, cfg.WebSubSecret)
	liveH := handler.NewLiveRedirectHandler(cacheSvc)
	maintH := handler.NewMaintenanceHandler(retentionSvc)
	subH := handler.NewSubscriptionHandler(subSvc)

	// ── Hub callback ─────────────────────────────────────────────────────
	r.Get("/websub-callback", webSubH.Verify)
	r.With(callbackRL.Limit).Post("/websub-callback", webSubH.Notify)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/live-redirect/cache", liveH.GetCache)

		// ── Admin routes ─────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider, cfg.AdminAPIKeyHash))
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

			r.Post("/websub/subscribe-all", subH.SubscribeAll)
			r.Post("/websub/subscribe-one", subH.SubscribeOne)
			r.Post("/maintenance/clean-live-cache", maintH.CleanLiveCache)
		})
	})

	return r
}
