package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/live-redirect-api/internal/application/notifyqueue"
	"github.com/live-redirect-api/internal/domain"
	"github.com/live-redirect-api/internal/infrastructure/websub"
	"github.com/live-redirect-api/internal/metrics"
	"github.com/live-redirect-api/internal/pkg/validate"
)

// maxFeedBytes bounds a single content delivery.
const maxFeedBytes = 1 << 20

// WebSubHandler receives hub verification requests and content deliveries.
type WebSubHandler struct {
	queue  notifyqueue.Service
	secret string
	now    func() time.Time
}

// NewWebSubHandler creates the callback handler. With a non-empty secret, deliveries
// must carry a matching X-Hub-Signature.
func NewWebSubHandler(queue notifyqueue.Service, secret string) *WebSubHandler {
	return &WebSubHandler{queue: queue, secret: secret, now: time.Now}
}

// Verify echoes hub.challenge to confirm a subscription.
func (h *WebSubHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challenge := q.Get("hub.challenge")
	slog.Info("websub verification", "mode", q.Get("hub.mode"), "topic", q.Get("hub.topic"))
	if challenge == "" {
		writeText(w, http.StatusBadRequest, "missing hub.challenge")
		return
	}
	writeText(w, http.StatusOK, challenge)
}

// Notify queues one record per feed entry.
func (h *WebSubHandler) Notify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFeedBytes+1))
	if err != nil {
		slog.Error("read websub delivery", "error", err)
		metrics.NotificationsReceived.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if len(body) > maxFeedBytes {
		slog.Warn("websub delivery too large", "limit", maxFeedBytes, "remote", r.RemoteAddr)
		metrics.NotificationsReceived.WithLabelValues("too_large").Inc()
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}

	// Unauthenticated deliveries are acknowledged so the hub does not redeliver them.
	if h.secret != "" && !websub.VerifySignature(h.secret, body, r.Header.Get("X-Hub-Signature")) {
		slog.Warn("websub delivery with bad signature ignored", "remote", r.RemoteAddr)
		metrics.NotificationsReceived.WithLabelValues("signature_mismatch").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	entries, err := parseFeed(body)
	if err != nil {
		slog.Error("websub delivery not parsed", "error", err)
		metrics.NotificationsReceived.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	valid := make([]domain.VideoNotification, 0, len(entries))
	for _, e := range entries {
		if err := validate.Struct(&e); err != nil {
			slog.Warn("feed entry skipped", "error", err)
			metrics.NotificationsReceived.WithLabelValues("invalid").Inc()
			continue
		}
		valid = append(valid, e)
	}

	if err := h.queue.Enqueue(r.Context(), valid, h.now()); err != nil {
		slog.Error("websub delivery not queued", "error", err)
		metrics.NotificationsReceived.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	metrics.NotificationsReceived.WithLabelValues("queued").Add(float64(len(valid)))
	slog.Info("websub delivery queued", "entries", len(entries), "queued", len(valid))
	w.WriteHeader(http.StatusNoContent)
}
