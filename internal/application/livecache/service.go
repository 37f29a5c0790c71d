// Package livecache serves the live redirect cache, rebuilding it from the notification
// queue when the stored bucket is stale.
package livecache

import (
	"context"
	"time"

	"github.com/live-redirect-api/internal/domain"
	"github.com/live-redirect-api/internal/metrics"
)

type Service interface {
	// GetCache returns today's bucket, reconciling first unless it is fresh and force is false.
	GetCache(ctx context.Context, force bool) (*domain.DailyCacheDocument, error)
}

type reconciler interface {
	Reconcile(ctx context.Context, now time.Time, force bool) (*domain.DailyCacheDocument, error)
}

type service struct {
	store      *Store
	reconciler reconciler
	ttl        time.Duration
	now        func() time.Time
}

func NewService(store *Store, reconciler reconciler, ttl time.Duration) Service {
	return &service{store: store, reconciler: reconciler, ttl: ttl, now: time.Now}
}

func (s *service) GetCache(ctx context.Context, force bool) (*domain.DailyCacheDocument, error) {
	now := s.now().UTC()
	if !force {
		doc, err := s.store.Get(ctx, domain.DayKey(now))
		if err != nil {
			return nil, err
		}
		if Fresh(doc, s.ttl, now) {
			metrics.CacheReads.WithLabelValues("fresh").Inc()
			return doc, nil
		}
	}

	start := time.Now()
	doc, err := s.reconciler.Reconcile(ctx, now, force)
	entries := 0
	if doc != nil {
		entries = len(doc.Channels)
	}
	metrics.RecordReconcile(time.Since(start), entries, err)
	if err != nil {
		return nil, err
	}
	metrics.CacheReads.WithLabelValues("rebuilt").Inc()
	return doc, nil
}
