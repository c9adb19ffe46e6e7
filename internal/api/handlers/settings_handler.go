package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// SettingsHandler serves the fee configuration endpoints.
type SettingsHandler struct {
	service services.SettingsServiceProvider
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service services.SettingsServiceProvider) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the effective settings for a period (or the global
// defaults when month/year are omitted).
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))

	settings, err := h.service.Resolve(month, year)
	if err != nil {
		writeServiceError(w, err, "Failed to resolve settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update applies an admin settings write; month+year makes it
// period-scoped, otherwise it changes the global defaults.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload services.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.WeeklyFee == nil && payload.WeeksPerMonth == nil {
		writeMessage(w, http.StatusBadRequest, "weekly_fee or weeks_per_month is required")
		return
	}
	if payload.WeeklyFee != nil && *payload.WeeklyFee < 0 {
		writeMessage(w, http.StatusBadRequest, "weekly_fee must not be negative")
		return
	}
	if payload.WeeksPerMonth != nil && (*payload.WeeksPerMonth < 1 || *payload.WeeksPerMonth > 5) {
		writeMessage(w, http.StatusBadRequest, "weeks_per_month must be between 1 and 5")
		return
	}
	if (payload.Month == nil) != (payload.Year == nil) {
		writeMessage(w, http.StatusBadRequest, "month and year must be provided together")
		return
	}
	if payload.Month != nil && (*payload.Month < 1 || *payload.Month > 12) {
		writeMessage(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	if payload.Year != nil && (*payload.Year < 2020 || *payload.Year > 2099) {
		writeMessage(w, http.StatusBadRequest, "year must be between 2020 and 2099")
		return
	}

	settings, err := h.service.Update(payload)
	if err != nil {
		writeServiceError(w, err, "Failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Pengaturan berhasil diupdate",
		"data":    settings,
	})
}
