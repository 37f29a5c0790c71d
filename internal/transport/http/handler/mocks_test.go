package handler

import (
	"context"
	"time"

	"github.com/live-redirect-api/internal/application/retention"
	"github.com/live-redirect-api/internal/application/subscription"
	"github.com/live-redirect-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockQueueSvc struct{ mock.Mock }

func (m *mockQueueSvc) Enqueue(ctx context.Context, n []domain.VideoNotification, at time.Time) error {
	return m.Called(ctx, n, at).Error(0)
}
func (m *mockQueueSvc) PendingForWindow(ctx context.Context, dayKeys []string, force bool) ([]domain.NotifiedVideoRecord, error) {
	args := m.Called(ctx, dayKeys, force)
	recs, _ := args.Get(0).([]domain.NotifiedVideoRecord)
	return recs, args.Error(1)
}
func (m *mockQueueSvc) MarkProcessed(ctx context.Context, videoIDs []string, dayKeys []string, at time.Time) error {
	return m.Called(ctx, videoIDs, dayKeys, at).Error(0)
}

type mockCacheSvc struct{ mock.Mock }

func (m *mockCacheSvc) GetCache(ctx context.Context, force bool) (*domain.DailyCacheDocument, error) {
	args := m.Called(ctx, force)
	if d, _ := args.Get(0).(*domain.DailyCacheDocument); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRetentionSvc struct{ mock.Mock }

func (m *mockRetentionSvc) Clean(ctx context.Context, mode retention.Mode, b retention.Bucket, days int) retention.Report {
	return m.Called(ctx, mode, b, days).Get(0).(retention.Report)
}
func (m *mockRetentionSvc) CleanAll(ctx context.Context, mode retention.Mode) (map[string]retention.Report, error) {
	args := m.Called(ctx, mode)
	res, _ := args.Get(0).(map[string]retention.Report)
	return res, args.Error(1)
}

type mockSubscriptionSvc struct{ mock.Mock }

func (m *mockSubscriptionSvc) SubscribeAll(ctx context.Context) (subscription.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(subscription.Summary), args.Error(1)
}
func (m *mockSubscriptionSvc) SubscribeOne(ctx context.Context, channelID string) error {
	return m.Called(ctx, channelID).Error(0)
}

type mockPinger struct{ mock.Mock }

func (m *mockPinger) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }
