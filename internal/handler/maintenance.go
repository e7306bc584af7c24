package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain/models"
	"docvault/internal/httputil"
	"docvault/internal/service"
)

// MaintenanceHandler exposes operator endpoints.
type MaintenanceHandler struct {
	reconciler *service.Reconciler
	logger     *slog.Logger
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(reconciler *service.Reconciler, logger *slog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Reconcile sweeps the file table for records whose blob is gone.
// POST /api/maintenance/reconcile
func (h *MaintenanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)
	if actor.Role != models.RoleAdmin {
		httputil.RespondError(w, http.StatusForbidden, "admin only")
		return
	}

	result, err := h.reconciler.Run(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
