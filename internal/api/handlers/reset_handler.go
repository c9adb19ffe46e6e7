package handlers

import (
	"net/http"

	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// ResetHandler serves the global data reset endpoint.
type ResetHandler struct {
	service services.ResetServiceProvider
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(service services.ResetServiceProvider) *ResetHandler {
	return &ResetHandler{service: service}
}

// ResetAllData wipes every ledger and all settings. Admin only,
// irreversible.
func (h *ResetHandler) ResetAllData(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetAllData(); err != nil {
		writeServiceError(w, err, "Failed to reset data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Semua data pemasukan, pengeluaran, dan pengaturan berhasil dihapus",
		"success": true,
	})
}
