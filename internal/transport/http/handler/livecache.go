package handler

import (
	"net/http"
	"strconv"

	"github.com/live-redirect-api/internal/application/livecache"
)

// LiveRedirectHandler serves the live redirect cache.
type LiveRedirectHandler struct {
	svc livecache.Service
}

func NewLiveRedirectHandler(svc livecache.Service) *LiveRedirectHandler {
	return &LiveRedirectHandler{svc: svc}
}

func (h *LiveRedirectHandler) GetCache(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	doc, err := h.svc.GetCache(r.Context(), force)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
