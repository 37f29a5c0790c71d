package livecache

import (
	"context"
	"fmt"
	"time"

	"github.com/live-redirect-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// memCacheRepo is an in-memory stand-in for the DynamoDB cache table.
type memCacheRepo struct {
	docs   map[string]domain.DailyCacheDocument
	putErr error
	puts   int
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{docs: map[string]domain.DailyCacheDocument{}}
}

func (m *memCacheRepo) Get(_ context.Context, day string) (*domain.DailyCacheDocument, error) {
	doc, ok := m.docs[day]
	if !ok {
		return nil, fmt.Errorf("live cache %s: %w", day, domain.ErrNotFound)
	}
	doc.Channels = append([]domain.ChannelCacheEntry(nil), doc.Channels...)
	return &doc, nil
}

func (m *memCacheRepo) Put(_ context.Context, doc *domain.DailyCacheDocument) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	cp := *doc
	cp.Channels = append([]domain.ChannelCacheEntry(nil), doc.Channels...)
	m.docs[doc.Date] = cp
	return nil
}

// memQueueRepo is an in-memory stand-in for the DynamoDB notify queue table.
type memQueueRepo struct {
	docs map[string]domain.NotifyQueueDocument
}

func newMemQueueRepo() *memQueueRepo {
	return &memQueueRepo{docs: map[string]domain.NotifyQueueDocument{}}
}

func (m *memQueueRepo) Get(_ context.Context, day string) (*domain.NotifyQueueDocument, error) {
	doc, ok := m.docs[day]
	if !ok {
		return nil, fmt.Errorf("notify queue %s: %w", day, domain.ErrNotFound)
	}
	doc.Videos = append([]domain.NotifiedVideoRecord(nil), doc.Videos...)
	return &doc, nil
}

func (m *memQueueRepo) Put(_ context.Context, doc *domain.NotifyQueueDocument) error {
	cp := *doc
	cp.Videos = append([]domain.NotifiedVideoRecord(nil), doc.Videos...)
	m.docs[doc.Date] = cp
	return nil
}

func (m *memQueueRepo) ReplaceVideos(_ context.Context, day string, videos []domain.NotifiedVideoRecord, updatedAt time.Time) error {
	doc := m.docs[day]
	doc.Date = day
	doc.UpdatedAt = updatedAt
	doc.Videos = append([]domain.NotifiedVideoRecord(nil), videos...)
	m.docs[day] = doc
	return nil
}

func (m *memQueueRepo) record(videoID string) (domain.NotifiedVideoRecord, bool) {
	for _, doc := range m.docs {
		for _, v := range doc.Videos {
			if v.VideoID == videoID {
				return v, true
			}
		}
	}
	return domain.NotifiedVideoRecord{}, false
}

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) FetchVideos(ctx context.Context, ids []string) ([]domain.VideoMetadata, error) {
	args := m.Called(ctx, ids)
	if v, _ := args.Get(0).([]domain.VideoMetadata); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockChannelDirectory struct{ mock.Mock }

func (m *mockChannelDirectory) Get(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	if c, _ := args.Get(0).(*domain.ChannelInfo); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReconciler struct{ mock.Mock }

func (m *mockReconciler) Reconcile(ctx context.Context, now time.Time, force bool) (*domain.DailyCacheDocument, error) {
	args := m.Called(ctx, now, force)
	if d, _ := args.Get(0).(*domain.DailyCacheDocument); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
