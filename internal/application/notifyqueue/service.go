// Package notifyqueue is the day-bucketed log of video notifications awaiting resolution.
package notifyqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/live-redirect-api/internal/domain"
)

type Service interface {
	// Enqueue upserts one record per notification into the bucket for notifiedAt.
	Enqueue(ctx context.Context, notifications []domain.VideoNotification, notifiedAt time.Time) error
	// PendingForWindow merges the listed buckets by video ID, keeping the latest notification.
	// Processed records are only returned when force is set.
	PendingForWindow(ctx context.Context, dayKeys []string, force bool) ([]domain.NotifiedVideoRecord, error)
	// MarkProcessed stamps processedAt on matching records in every listed bucket.
	MarkProcessed(ctx context.Context, videoIDs []string, dayKeys []string, at time.Time) error
}

type queueStore interface {
	Get(ctx context.Context, day string) (*domain.NotifyQueueDocument, error)
	Put(ctx context.Context, doc *domain.NotifyQueueDocument) error
	ReplaceVideos(ctx context.Context, day string, videos []domain.NotifiedVideoRecord, updatedAt time.Time) error
}

type service struct {
	repo queueStore
}

func NewService(repo queueStore) Service {
	return &service{repo: repo}
}

func (s *service) Enqueue(ctx context.Context, notifications []domain.VideoNotification, notifiedAt time.Time) error {
	if len(notifications) == 0 {
		return nil
	}
	day := domain.DayKey(notifiedAt)
	doc, err := s.load(ctx, day)
	if err != nil {
		return err
	}
	existed := doc != nil
	if !existed {
		doc = &domain.NotifyQueueDocument{Date: day, Videos: []domain.NotifiedVideoRecord{}}
	}

	index := make(map[string]int, len(doc.Videos))
	for i, v := range doc.Videos {
		index[v.VideoID] = i
	}
	for _, n := range notifications {
		// A re-notification replaces the record outright, so the video is resolved again.
		rec := domain.NotifiedVideoRecord{
			VideoID:    n.VideoID,
			ChannelID:  n.ChannelID,
			NotifiedAt: notifiedAt.UTC(),
		}
		if i, ok := index[n.VideoID]; ok {
			doc.Videos[i] = rec
			continue
		}
		index[n.VideoID] = len(doc.Videos)
		doc.Videos = append(doc.Videos, rec)
		slog.Info("video notification queued", "video_id", n.VideoID, "channel_id", n.ChannelID, "day", day)
	}

	if !existed {
		doc.UpdatedAt = notifiedAt.UTC()
		if err := s.repo.Put(ctx, doc); err != nil {
			return fmt.Errorf("put notify queue %s: %w", day, err)
		}
		return nil
	}
	if err := s.repo.ReplaceVideos(ctx, day, doc.Videos, notifiedAt.UTC()); err != nil {
		return fmt.Errorf("update notify queue %s: %w", day, err)
	}
	return nil
}

func (s *service) PendingForWindow(ctx context.Context, dayKeys []string, force bool) ([]domain.NotifiedVideoRecord, error) {
	latest := make(map[string]domain.NotifiedVideoRecord)
	var order []string
	for _, day := range dayKeys {
		doc, err := s.load(ctx, day)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		for _, v := range doc.Videos {
			if v.VideoID == "" {
				continue
			}
			prev, seen := latest[v.VideoID]
			if !seen {
				order = append(order, v.VideoID)
			}
			if !seen || v.NotifiedAt.After(prev.NotifiedAt) {
				latest[v.VideoID] = v
			}
		}
	}

	pending := make([]domain.NotifiedVideoRecord, 0, len(order))
	for _, vid := range order {
		rec := latest[vid]
		if !force && rec.Processed() {
			continue
		}
		pending = append(pending, rec)
	}
	return pending, nil
}

func (s *service) MarkProcessed(ctx context.Context, videoIDs []string, dayKeys []string, at time.Time) error {
	if len(videoIDs) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(videoIDs))
	for _, vid := range videoIDs {
		wanted[vid] = struct{}{}
	}
	stamp := at.UTC()

	for _, day := range dayKeys {
		doc, err := s.load(ctx, day)
		if err != nil {
			return err
		}
		if doc == nil {
			continue
		}
		touched := 0
		for i := range doc.Videos {
			if _, ok := wanted[doc.Videos[i].VideoID]; !ok {
				continue
			}
			ts := stamp
			doc.Videos[i].ProcessedAt = &ts
			touched++
		}
		if touched == 0 {
			continue
		}
		if err := s.repo.ReplaceVideos(ctx, day, doc.Videos, stamp); err != nil {
			return fmt.Errorf("mark processed in %s: %w", day, err)
		}
		slog.Debug("notifications marked processed", "day", day, "count", touched)
	}
	return nil
}

// load returns nil without error when the bucket does not exist yet.
func (s *service) load(ctx context.Context, day string) (*domain.NotifyQueueDocument, error) {
	doc, err := s.repo.Get(ctx, day)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notify queue %s: %w", day, err)
	}
	return doc, nil
}
