package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// PaymentHandler handles the dues ledger endpoints.
type PaymentHandler struct {
	service services.PaymentServiceProvider
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service services.PaymentServiceProvider) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// List returns ledger entries, optionally filtered by period.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	bulan, tahun := optionalPeriod(r)
	payments, err := h.service.List(bulan, tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to list payments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": payments})
}

// Matrix returns the per-week payment grid for a period.
func (h *PaymentHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	bulan, tahun, err := requirePeriod(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	matrix, err := h.service.Matrix(bulan, tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to build payment matrix")
		return
	}
	writeJSON(w, http.StatusOK, matrix)
}

// MyPayments returns the authenticated user's payment history.
func (h *PaymentHandler) MyPayments(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}
	payments, err := h.service.ListByUser(claims.UserID)
	if err != nil {
		writeServiceError(w, err, "Failed to list own payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// StorePayload defines the structure for payment create requests.
type StorePayload struct {
	UserID   string `json:"user_id"`
	Bulan    int    `json:"bulan"`
	Tahun    int    `json:"tahun"`
	MingguKe int    `json:"minggu_ke"`
	Nominal  int64  `json:"nominal"`
}

// Store records a weekly payment under the top-up policy: 201 for a new
// row, 200 for a top-up or an idempotent repeat.
func (h *PaymentHandler) Store(w http.ResponseWriter, r *http.Request) {
	var payload StorePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.UserID == "" {
		writeMessage(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := validPeriodFields(payload.Bulan, payload.Tahun, payload.MingguKe); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Nominal < 0 {
		writeMessage(w, http.StatusBadRequest, "nominal must not be negative")
		return
	}

	payment, outcome, err := h.service.Record(payload.UserID, payload.Bulan, payload.Tahun, payload.MingguKe, payload.Nominal)
	if err != nil {
		writeServiceError(w, err, "Failed to record payment")
		return
	}

	switch outcome {
	case services.OutcomeCreated:
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Pembayaran berhasil disimpan",
			"data":    payment,
		})
	case services.OutcomeUpdated:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Pembayaran berhasil diperbarui (pelunasan)",
			"data":    payment,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Pembayaran sudah tercatat sebelumnya",
			"data":    payment,
		})
	}
}

// BulkPayload defines the structure for "pay all weeks" requests.
type BulkPayload struct {
	UserID string `json:"user_id"`
	Bulan  int    `json:"bulan"`
	Tahun  int    `json:"tahun"`
}

// BulkStore settles every remaining week of a period for one user.
func (h *PaymentHandler) BulkStore(w http.ResponseWriter, r *http.Request) {
	var payload BulkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.UserID == "" {
		writeMessage(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := validPeriodFields(payload.Bulan, payload.Tahun, 1); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SettleMonth(payload.UserID, payload.Bulan, payload.Tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to settle month")
		return
	}

	if result.WeeksPaid == 0 && result.WeeksUpdated == 0 {
		writeMessage(w, http.StatusOK, "Semua minggu sudah lunas")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":       "Pelunasan berhasil",
		"weeks_paid":    result.WeeksPaid,
		"weeks_updated": result.WeeksUpdated,
		"total_amount":  result.TotalAmount,
	})
}

// Update sets a ledger entry's nominal to an exact value.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Nominal int64 `json:"nominal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Nominal < 0 {
		writeMessage(w, http.StatusBadRequest, "nominal must not be negative")
		return
	}

	payment, err := h.service.UpdateNominal(id, payload.Nominal)
	if err != nil {
		writeServiceError(w, err, "Failed to update payment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Pembayaran berhasil diupdate",
		"data":    payment,
	})
}

// Delete removes a ledger entry.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(id); err != nil {
		writeServiceError(w, err, "Failed to delete payment")
		return
	}
	writeMessage(w, http.StatusOK, "Pembayaran berhasil dihapus")
}
