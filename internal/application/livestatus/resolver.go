// Package livestatus resolves video identifiers into live-state classifications.
package livestatus

import (
	"context"
	"log/slog"
	"time"

	"github.com/live-redirect-api/internal/domain"
	"github.com/live-redirect-api/internal/metrics"
)

// BatchSize is the most identifiers sent to the provider in one call.
const BatchSize = 50

type videoFetcher interface {
	FetchVideos(ctx context.Context, ids []string) ([]domain.VideoMetadata, error)
}

// Resolution is the outcome of one Resolve call.
//
// Results holds one entry per identifier that was decided, in input order, including
// Unavailable fallbacks. Failed lists identifiers whose provider batch errored and
// Skipped those whose metadata could not be parsed; neither should be marked processed.
type Resolution struct {
	Results []Result
	Failed  []string
	Skipped []string
}

// Resolver fetches metadata in sequential batches and classifies every video.
type Resolver struct {
	fetcher videoFetcher
}

func NewResolver(fetcher videoFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve classifies ids at now. Duplicate and empty identifiers are ignored.
func (r *Resolver) Resolve(ctx context.Context, ids []string, now time.Time) Resolution {
	var res Resolution
	for _, batch := range batches(dedupe(ids), BatchSize) {
		videos, err := r.fetcher.FetchVideos(ctx, batch)
		metrics.RecordProviderBatch(err)
		if err != nil {
			slog.Warn("video batch skipped", "size", len(batch), "error", err)
			res.Failed = append(res.Failed, batch...)
			continue
		}

		byID := make(map[string]domain.VideoMetadata, len(videos))
		for _, v := range videos {
			byID[v.ID] = v
		}
		for _, id := range batch {
			v, ok := byID[id]
			if !ok {
				slog.Info("video missing from provider, using fallback", "video_id", id)
				fallback := domain.NewFallbackEntry(id, now)
				res.Results = append(res.Results, Result{VideoID: id, State: domain.StateUnavailable, Status: fallback.Live})
				metrics.VideosClassified.WithLabelValues(string(domain.StateUnavailable)).Inc()
				continue
			}
			out, err := Classify(v, now)
			if err != nil {
				slog.Warn("video skipped", "video_id", id, "error", err)
				res.Skipped = append(res.Skipped, id)
				continue
			}
			metrics.VideosClassified.WithLabelValues(string(out.State)).Inc()
			res.Results = append(res.Results, out)
		}
	}
	return res
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func batches(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}
