package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// Receipt uploads are capped at 2 MiB, images only.
const maxReceiptSize = 2 << 20

// ExpenseHandler handles the expense ledger endpoints. Writes arrive as
// multipart forms because they can carry a receipt image.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// List returns expenses, optionally filtered by period.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	bulan, tahun := optionalPeriod(r)
	expenses, err := h.service.List(bulan, tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to list expenses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": expenses})
}

// Get returns one expense.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get expense")
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// parseReceipt extracts an optional receipt image from the form.
func parseReceipt(r *http.Request) (*services.Receipt, error) {
	file, header, err := r.FormFile("foto")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		file.Close()
		return nil, errInvalidReceipt
	}
	return &services.Receipt{Filename: header.Filename, Data: file}, nil
}

var errInvalidReceipt = errors.New("foto must be a jpeg or png image")

// Store records a new expense.
func (h *ExpenseHandler) Store(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	judul := r.FormValue("judul")
	if judul == "" || len(judul) > 255 {
		writeMessage(w, http.StatusBadRequest, "judul is required (max 255 characters)")
		return
	}
	nominal, err := strconv.ParseInt(r.FormValue("nominal"), 10, 64)
	if err != nil || nominal < 0 {
		writeMessage(w, http.StatusBadRequest, "nominal must be a non-negative integer")
		return
	}
	tanggal, err := time.Parse("2006-01-02", r.FormValue("tanggal"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "tanggal must be a date (YYYY-MM-DD)")
		return
	}

	receipt, err := parseReceipt(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.Create(judul, nominal, tanggal, receipt)
	if err != nil {
		writeServiceError(w, err, "Failed to create expense")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Pengeluaran berhasil disimpan",
		"data":    expense,
	})
}

// Update modifies an expense; omitted fields stay unchanged.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var judul *string
	if v := r.FormValue("judul"); v != "" {
		if len(v) > 255 {
			writeMessage(w, http.StatusBadRequest, "judul too long (max 255 characters)")
			return
		}
		judul = &v
	}
	var nominal *int64
	if v := r.FormValue("nominal"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeMessage(w, http.StatusBadRequest, "nominal must be a non-negative integer")
			return
		}
		nominal = &n
	}
	var tanggal *time.Time
	if v := r.FormValue("tanggal"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "tanggal must be a date (YYYY-MM-DD)")
			return
		}
		tanggal = &t
	}

	receipt, err := parseReceipt(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.Update(id, judul, nominal, tanggal, receipt)
	if err != nil {
		writeServiceError(w, err, "Failed to update expense")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Pengeluaran berhasil diupdate",
		"data":    expense,
	})
}

// Delete removes an expense and its receipt.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "Failed to delete expense")
		return
	}
	writeMessage(w, http.StatusOK, "Pengeluaran berhasil dihapus")
}
