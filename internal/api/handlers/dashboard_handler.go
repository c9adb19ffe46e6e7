package handlers

import (
	"net/http"

	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// DashboardHandler serves the aggregated treasury summary.
type DashboardHandler struct {
	service services.DashboardServiceProvider
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service services.DashboardServiceProvider) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats returns balance, totals and the current-month arrears count.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats()
	if err != nil {
		writeServiceError(w, err, "Failed to compute dashboard stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
