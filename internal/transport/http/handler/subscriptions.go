package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/live-redirect-api/internal/application/subscription"
	"github.com/live-redirect-api/internal/pkg/validate"
)

// SubscriptionHandler triggers hub subscriptions for tracked channels.
type SubscriptionHandler struct {
	svc subscription.Service
}

func NewSubscriptionHandler(svc subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

type subscribeOneQuery struct {
	ChannelID string `validate:"required,max=64"`
}

// SubscribeAll responds with a plain-text count of accepted subscriptions.
func (h *SubscriptionHandler) SubscribeAll(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.SubscribeAll(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("subscribed %d of %d channels", sum.Subscribed, sum.Requested))
}

func (h *SubscriptionHandler) SubscribeOne(w http.ResponseWriter, r *http.Request) {
	q := subscribeOneQuery{ChannelID: r.URL.Query().Get("channel_id")}
	if err := validate.Struct(&q); err != nil {
		writeError(w, http.StatusBadRequest, "channel_id is required")
		return
	}
	err := h.svc.SubscribeOne(r.Context(), q.ChannelID)
	switch {
	case errors.Is(err, subscription.ErrRejected):
		writeError(w, http.StatusBadGateway, err.Error())
	case err != nil:
		httpError(w, err)
	default:
		writeText(w, http.StatusOK, "subscribed 1 of 1 channels")
	}
}
