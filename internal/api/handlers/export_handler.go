package handlers

import (
	"fmt"
	"net/http"

	"github.com/kaskelas/kas-kelas-be/internal/export"
	"github.com/kaskelas/kas-kelas-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ExportHandler streams report downloads. Auth runs on a ?token= query
// parameter because these URLs are opened by browser navigation.
type ExportHandler struct {
	payments services.PaymentServiceProvider
	expenses services.ExpenseServiceProvider
	settings services.SettingsServiceProvider
	users    services.UserServiceProvider
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(payments services.PaymentServiceProvider, expenses services.ExpenseServiceProvider, settings services.SettingsServiceProvider, users services.UserServiceProvider) *ExportHandler {
	return &ExportHandler{payments: payments, expenses: expenses, settings: settings, users: users}
}

// checkFormat accepts only format=csv. PDF and spreadsheet rendering
// live outside this service.
func checkFormat(w http.ResponseWriter, r *http.Request) bool {
	if format := r.URL.Query().Get("format"); format != "csv" {
		writeMessage(w, http.StatusBadRequest, "format must be csv")
		return false
	}
	return true
}

func serveCSV(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// Global streams the monthly income report for all members.
func (h *ExportHandler) Global(w http.ResponseWriter, r *http.Request) {
	if !checkFormat(w, r) {
		return
	}
	bulan, tahun, err := requirePeriod(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := h.settings.Resolve(bulan, tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to resolve settings for export")
		return
	}
	matrix, err := h.payments.Matrix(bulan, tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to build matrix for export")
		return
	}

	serveCSV(w, fmt.Sprintf("Laporan_Pemasukan_%s_%d.csv", export.MonthName(bulan), tahun))
	if err := export.WriteGlobalReport(w, bulan, tahun, settings, matrix); err != nil {
		log.Error().Err(err).Msg("Failed to stream global report")
	}
}

// Pengeluaran streams the monthly expense report.
func (h *ExportHandler) Pengeluaran(w http.ResponseWriter, r *http.Request) {
	if !checkFormat(w, r) {
		return
	}
	bulan, tahun, err := requirePeriod(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.expenses.List(bulan, tahun)
	if err != nil {
		writeServiceError(w, err, "Failed to list expenses for export")
		return
	}

	serveCSV(w, fmt.Sprintf("Laporan_Pengeluaran_%s_%d.csv", export.MonthName(bulan), tahun))
	if err := export.WriteExpenseReport(w, bulan, tahun, expenses); err != nil {
		log.Error().Err(err).Msg("Failed to stream expense report")
	}
}

// Personal streams the authenticated member's payment card.
func (h *ExportHandler) Personal(w http.ResponseWriter, r *http.Request) {
	if !checkFormat(w, r) {
		return
	}
	claims, ok := claimsOrFail(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		writeServiceError(w, err, "Failed to load user for export")
		return
	}
	payments, err := h.payments.ListByUser(user.ID)
	if err != nil {
		writeServiceError(w, err, "Failed to load payments for export")
		return
	}

	serveCSV(w, fmt.Sprintf("Kartu_Kendali_%s.csv", user.NIM))
	if err := export.WritePersonalCard(w, user, payments); err != nil {
		log.Error().Err(err).Msg("Failed to stream personal card")
	}
}
