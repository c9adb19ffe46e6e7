package handlers

import (
	"net/http"

	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// ArrearsHandler serves the per-period arrears list.
type ArrearsHandler struct {
	service services.ArrearsServiceProvider
}

// NewArrearsHandler creates a new ArrearsHandler.
func NewArrearsHandler(service services.ArrearsServiceProvider) *ArrearsHandler {
	return &ArrearsHandler{service: service}
}

// List returns users with unpaid weeks for the requested period.
func (h *ArrearsHandler) List(w http.ResponseWriter, r *http.Request) {
	bulan, tahun, err := requirePeriod(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.ForPeriod(bulan, tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to compute arrears")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
