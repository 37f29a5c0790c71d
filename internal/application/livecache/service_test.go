package livecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/live-redirect-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *memCacheRepo, rec *mockReconciler) *service {
	svc := NewService(NewStore(repo), rec, 5*time.Minute).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetCache_FreshShortCircuits(t *testing.T) {
	repo := newMemCacheRepo()
	repo.docs[todayKey] = domain.DailyCacheDocument{
		UpdatedAt: now.Add(-time.Minute),
		Channels:  []domain.ChannelCacheEntry{openEntry("v1", now.Add(-time.Hour))},
	}
	rec := new(mockReconciler)

	doc, err := newTestService(repo, rec).GetCache(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, doc.UpdatedAt.Equal(now.Add(-time.Minute)))
	assert.Len(t, doc.Channels, 1)
	rec.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCache_StaleReconciles(t *testing.T) {
	repo := newMemCacheRepo()
	repo.docs[todayKey] = domain.DailyCacheDocument{UpdatedAt: now.Add(-6 * time.Minute)}
	rebuilt := &domain.DailyCacheDocument{UpdatedAt: now, Channels: []domain.ChannelCacheEntry{}}
	rec := new(mockReconciler)
	rec.On("Reconcile", mock.Anything, now, false).Return(rebuilt, nil).Once()

	doc, err := newTestService(repo, rec).GetCache(context.Background(), false)
	require.NoError(t, err)
	assert.Same(t, rebuilt, doc)
	rec.AssertExpectations(t)
}

func TestGetCache_MissingReconciles(t *testing.T) {
	rec := new(mockReconciler)
	rec.On("Reconcile", mock.Anything, now, false).Return(&domain.DailyCacheDocument{UpdatedAt: now}, nil).Once()

	_, err := newTestService(newMemCacheRepo(), rec).GetCache(context.Background(), false)
	require.NoError(t, err)
	rec.AssertExpectations(t)
}

func TestGetCache_ForceIgnoresFreshness(t *testing.T) {
	repo := newMemCacheRepo()
	repo.docs[todayKey] = domain.DailyCacheDocument{UpdatedAt: now.Add(-time.Minute)}
	rec := new(mockReconciler)
	rec.On("Reconcile", mock.Anything, now, true).Return(&domain.DailyCacheDocument{UpdatedAt: now}, nil).Once()

	_, err := newTestService(repo, rec).GetCache(context.Background(), true)
	require.NoError(t, err)
	rec.AssertExpectations(t)
}

func TestGetCache_ReconcileError(t *testing.T) {
	rec := new(mockReconciler)
	rec.On("Reconcile", mock.Anything, now, false).Return(nil, errors.New("store down"))

	_, err := newTestService(newMemCacheRepo(), rec).GetCache(context.Background(), false)
	assert.Error(t, err)
}

func TestFresh(t *testing.T) {
	ttl := 5 * time.Minute
	assert.False(t, Fresh(nil, ttl, now))
	assert.True(t, Fresh(&domain.DailyCacheDocument{UpdatedAt: now.Add(-time.Minute)}, ttl, now))
	assert.False(t, Fresh(&domain.DailyCacheDocument{UpdatedAt: now.Add(-ttl)}, ttl, now))
}

func TestStore_IsFresh(t *testing.T) {
	repo := newMemCacheRepo()
	repo.docs[todayKey] = domain.DailyCacheDocument{UpdatedAt: now.Add(-time.Minute)}
	store := NewStore(repo)

	fresh, err := store.IsFresh(context.Background(), todayKey, 5*time.Minute, now)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.IsFresh(context.Background(), ydayKey, 5*time.Minute, now)
	require.NoError(t, err)
	assert.False(t, fresh)
}
