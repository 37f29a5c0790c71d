package handler

import (
	"encoding/json"
	"net/http"

	"github.com/live-redirect-api/internal/application/retention"
	"github.com/live-redirect-api/internal/pkg/validate"
)

// MaintenanceHandler exposes the retention cleaner.
type MaintenanceHandler struct {
	svc retention.Service
}

func NewMaintenanceHandler(svc retention.Service) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

func (h *MaintenanceHandler) CleanLiveCache(w http.ResponseWriter, r *http.Request) {
	var req CleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "mode must be 'dry-run' or 'execute'")
		return
	}
	results, err := h.svc.CleanAll(r.Context(), retention.Mode(req.Mode))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
