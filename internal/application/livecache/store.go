package livecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/live-redirect-api/internal/domain"
)

type cacheRepo interface {
	Get(ctx context.Context, day string) (*domain.DailyCacheDocument, error)
	Put(ctx context.Context, doc *domain.DailyCacheDocument) error
}

// Store is the day-bucketed cache of last known live statuses.
type Store struct {
	repo cacheRepo
}

func NewStore(repo cacheRepo) *Store {
	return &Store{repo: repo}
}

// Get returns the bucket for day, or nil when it has never been written.
func (s *Store) Get(ctx context.Context, day string) (*domain.DailyCacheDocument, error) {
	doc, err := s.repo.Get(ctx, day)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get live cache %s: %w", day, err)
	}
	doc.Date = day
	return doc, nil
}

// Set rewrites the whole bucket in one write.
func (s *Store) Set(ctx context.Context, day string, doc *domain.DailyCacheDocument) error {
	doc.Date = day
	if doc.Channels == nil {
		doc.Channels = []domain.ChannelCacheEntry{}
	}
	if err := s.repo.Put(ctx, doc); err != nil {
		return fmt.Errorf("put live cache %s: %w", day, err)
	}
	return nil
}

// IsFresh reports whether the bucket for day was written less than ttl before now.
func (s *Store) IsFresh(ctx context.Context, day string, ttl time.Duration, now time.Time) (bool, error) {
	doc, err := s.Get(ctx, day)
	if err != nil {
		return false, err
	}
	return Fresh(doc, ttl, now), nil
}

// Fresh is the freshness rule applied to an already loaded document. A missing document is never fresh.
func Fresh(doc *domain.DailyCacheDocument, ttl time.Duration, now time.Time) bool {
	return doc != nil && now.Sub(doc.UpdatedAt) < ttl
}
