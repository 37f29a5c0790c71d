package http

import (
	"context"
	"time"

	"github.com/live-redirect-api/internal/domain"
)

// DayBucketRepository is the surface shared by every day-keyed collection: retention
// needs to list, export and purge buckets.
type DayBucketRepository interface {
	Name() string
	ListDays(ctx context.Context) ([]string, error)
	DeleteDays(ctx context.Context, days []string) error
	ExportDay(ctx context.Context, day string) (interface{}, error)
}

// NotifyQueueRepository is the minimal interface the router requires from the notification queue store.
type NotifyQueueRepository interface {
	DayBucketRepository
	Get(ctx context.Context, day string) (*domain.NotifyQueueDocument, error)
	Put(ctx context.Context, doc *domain.NotifyQueueDocument) error
	ReplaceVideos(ctx context.Context, day string, videos []domain.NotifiedVideoRecord, updatedAt time.Time) error
}

// LiveCacheRepository is the minimal interface the router requires from the cache store.
// Ping backs the readiness check.
type LiveCacheRepository interface {
	DayBucketRepository
	Get(ctx context.Context, day string) (*domain.DailyCacheDocument, error)
	Put(ctx context.Context, doc *domain.DailyCacheDocument) error
	Ping(ctx context.Context) error
}

// ChannelDirectory resolves tracked channels.
type ChannelDirectory interface {
	Get(ctx context.Context, channelID string) (*domain.ChannelInfo, error)
	List(ctx context.Context) ([]domain.ChannelInfo, error)
}

// VideoProvider fetches video metadata for at most 50 identifiers per call.
type VideoProvider interface {
	FetchVideos(ctx context.Context, ids []string) ([]domain.VideoMetadata, error)
}

// Hub submits WebSub subscription requests and returns the hub's HTTP status.
type Hub interface {
	Subscribe(ctx context.Context, channelID string) (int, error)
}

// ObjectArchive stores a copy of a purged day bucket.
type ObjectArchive interface {
	ArchiveDay(ctx context.Context, collection, day string, doc any) (string, error)
}

// Publisher sends operator notifications.
type Publisher interface {
	Publish(ctx context.Context, subject, message string) error
}
