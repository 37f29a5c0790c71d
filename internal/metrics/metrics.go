// Package metrics holds the Prometheus instruments for the live redirect pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion
	NotificationsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websub_notifications_total",
			Help: "Feed entries received on the WebSub callback",
		},
		[]string{"outcome"}, // "queued", "invalid", "signature_mismatch", "error"
	)

	// Metadata provider
	ProviderBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_provider_batches_total",
			Help: "videos.list batch calls by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	VideosClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videos_classified_total",
			Help: "Videos classified by resulting live state",
		},
		[]string{"state"},
	)

	// Reconciliation
	ReconcileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "live_cache_reconcile_duration_seconds",
			Help:    "Duration of live cache reconciliation passes",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"}, // "ok", "error"
	)

	CacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_cache_reads_total",
			Help: "Cache endpoint reads by how they were served",
		},
		[]string{"source"}, // "fresh", "rebuilt"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_cache_entries",
			Help: "Entries written by the last reconciliation pass",
		},
	)

	// Subscriptions
	HubSubscriptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websub_subscriptions_total",
			Help: "Hub subscribe requests by outcome",
		},
		[]string{"outcome"}, // "accepted", "failed", "retried"
	)

	// Retention
	RetentionBuckets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retention_buckets_total",
			Help: "Day buckets evaluated by the retention cleaner",
		},
		[]string{"collection", "action"}, // action: "deleted", "kept", "listed"
	)
)

// RecordReconcile observes one reconciliation pass.
func RecordReconcile(duration time.Duration, entries int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	} else {
		CacheEntries.Set(float64(entries))
	}
	ReconcileDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordProviderBatch counts one videos.list call.
func RecordProviderBatch(err error) {
	if err != nil {
		ProviderBatches.WithLabelValues("error").Inc()
		return
	}
	ProviderBatches.WithLabelValues("ok").Inc()
}
