// Package retention purges day-bucket documents that fell out of the retention window.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/live-redirect-api/internal/domain"
	"github.com/live-redirect-api/internal/metrics"
)

// Mode selects between reporting and deleting.
type Mode string

const (
	ModeDryRun  Mode = "dry-run"
	ModeExecute Mode = "execute"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeDryRun || m == ModeExecute }

// Report is the outcome for one collection. Error is set when the collection could not be
// listed or purged; the lists still show what was decided.
type Report struct {
	ToDelete []string `json:"toDelete"`
	ToKeep   []string `json:"toKeep"`
	Archived []string `json:"archived,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Bucket is one day-bucketed collection the cleaner can purge.
type Bucket interface {
	Name() string
	ListDays(ctx context.Context) ([]string, error)
	DeleteDays(ctx context.Context, days []string) error
	ExportDay(ctx context.Context, day string) (interface{}, error)
}

type archiver interface {
	ArchiveDay(ctx context.Context, collection, day string, doc any) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, subject, message string) error
}

type Service interface {
	// Clean evaluates one collection against retentionDays.
	Clean(ctx context.Context, mode Mode, bucket Bucket, retentionDays int) Report
	// CleanAll runs Clean over every configured collection, keyed by collection name.
	CleanAll(ctx context.Context, mode Mode) (map[string]Report, error)
}

type service struct {
	buckets       []Bucket
	retentionDays int
	archive       archiver  // optional
	notifier      publisher // optional
	now           func() time.Time
}

// NewService builds the cleaner. archive and notifier may be nil.
func NewService(buckets []Bucket, retentionDays int, archive archiver, notifier publisher) Service {
	return &service{
		buckets:       buckets,
		retentionDays: retentionDays,
		archive:       archive,
		notifier:      notifier,
		now:           time.Now,
	}
}

func (s *service) CleanAll(ctx context.Context, mode Mode) (map[string]Report, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("mode %q: %w", mode, domain.ErrBadRequest)
	}
	results := make(map[string]Report, len(s.buckets))
	for _, b := range s.buckets {
		results[b.Name()] = s.Clean(ctx, mode, b, s.retentionDays)
	}
	if mode == ModeExecute && s.notifier != nil {
		if err := s.notifier.Publish(ctx, "live redirect retention", summarize(results)); err != nil {
			slog.Warn("retention summary not published", "error", err)
		}
	}
	return results, nil
}

func (s *service) Clean(ctx context.Context, mode Mode, bucket Bucket, retentionDays int) Report {
	name := bucket.Name()
	report := Report{ToDelete: []string{}, ToKeep: []string{}}

	days, err := bucket.ListDays(ctx)
	if err != nil {
		slog.Error("list day buckets", "collection", name, "error", err)
		report.Error = err.Error()
		return report
	}

	cutoff := domain.DayKey(s.now().AddDate(0, 0, -retentionDays))
	cutoffDay, _ := domain.ParseDayKey(cutoff)
	for _, day := range days {
		t, err := domain.ParseDayKey(day)
		if err != nil {
			slog.Warn("keeping bucket with unparseable key", "collection", name, "key", day)
			report.ToKeep = append(report.ToKeep, day)
			continue
		}
		if t.Before(cutoffDay) {
			report.ToDelete = append(report.ToDelete, day)
		} else {
			report.ToKeep = append(report.ToKeep, day)
		}
	}
	metrics.RetentionBuckets.WithLabelValues(name, "kept").Add(float64(len(report.ToKeep)))

	if mode != ModeExecute || len(report.ToDelete) == 0 {
		metrics.RetentionBuckets.WithLabelValues(name, "listed").Add(float64(len(report.ToDelete)))
		return report
	}

	deletable := report.ToDelete
	if s.archive != nil {
		deletable = s.archiveDays(ctx, bucket, &report)
		if len(deletable) == 0 {
			return report
		}
	}
	slog.Info("deleting expired day buckets", "collection", name, "count", len(deletable), "days", deletable)
	if err := bucket.DeleteDays(ctx, deletable); err != nil {
		slog.Error("delete day buckets", "collection", name, "error", err)
		report.Error = err.Error()
		return report
	}
	metrics.RetentionBuckets.WithLabelValues(name, "deleted").Add(float64(len(deletable)))
	return report
}

// archiveDays copies each expired bucket to the archive and returns the days that are safe to delete.
// A bucket that fails to archive moves from ToDelete to ToKeep and is retried on the next run.
func (s *service) archiveDays(ctx context.Context, bucket Bucket, report *Report) []string {
	name := bucket.Name()
	safe := make([]string, 0, len(report.ToDelete))
	var failed []string
	for _, day := range report.ToDelete {
		doc, err := bucket.ExportDay(ctx, day)
		if err == nil {
			_, err = s.archive.ArchiveDay(ctx, name, day, doc)
		}
		if err != nil {
			slog.Warn("archive failed, bucket kept", "collection", name, "day", day, "error", err)
			failed = append(failed, day)
			continue
		}
		report.Archived = append(report.Archived, day)
		safe = append(safe, day)
	}
	if len(failed) > 0 {
		report.Error = fmt.Sprintf("archive failed for %s", strings.Join(failed, ", "))
		report.ToKeep = append(report.ToKeep, failed...)
		metrics.RetentionBuckets.WithLabelValues(name, "kept").Add(float64(len(failed)))
	}
	report.ToDelete = safe
	return safe
}

func summarize(results map[string]Report) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		r := results[name]
		fmt.Fprintf(&b, "%s: deleted=%d kept=%d", name, len(r.ToDelete), len(r.ToKeep))
		if r.Error != "" {
			fmt.Fprintf(&b, " error=%q", r.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
