package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kaskelas/kas-kelas-be/internal/auth"
	"github.com/kaskelas/kas-kelas-be/internal/services"
	"github.com/rs/zerolog/log"
)

// claimsOrFail pulls the authenticated claims from the context, writing
// a 500 when the auth middleware did not run.
func claimsOrFail(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Could not retrieve user from token")
	}
	return claims, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps service sentinel errors to HTTP statuses.
// Unknown errors become an opaque 500; detail stays in the log.
func writeServiceError(w http.ResponseWriter, err error, context string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrFeeNotConfigured):
		writeMessage(w, http.StatusBadRequest, "Weekly fee is not configured for this period")
	default:
		log.Error().Err(err).Msg(context)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// requirePeriod parses and validates the bulan/tahun query parameters.
func requirePeriod(r *http.Request) (bulan, tahun int, err error) {
	bulan, err = strconv.Atoi(r.URL.Query().Get("bulan"))
	if err != nil || bulan < 1 || bulan > 12 {
		return 0, 0, fmt.Errorf("bulan must be an integer between 1 and 12")
	}
	tahun, err = strconv.Atoi(r.URL.Query().Get("tahun"))
	if err != nil || tahun < 2020 || tahun > 2099 {
		return 0, 0, fmt.Errorf("tahun must be an integer between 2020 and 2099")
	}
	return bulan, tahun, nil
}

// optionalPeriod parses bulan/tahun when both are present, returning
// zeros otherwise.
func optionalPeriod(r *http.Request) (bulan, tahun int) {
	q := r.URL.Query()
	if q.Get("bulan") == "" || q.Get("tahun") == "" {
		return 0, 0
	}
	b, err1 := strconv.Atoi(q.Get("bulan"))
	t, err2 := strconv.Atoi(q.Get("tahun"))
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return b, t
}

func validPeriodFields(bulan, tahun, mingguKe int) error {
	if bulan < 1 || bulan > 12 {
		return fmt.Errorf("bulan must be between 1 and 12")
	}
	if tahun < 2020 || tahun > 2099 {
		return fmt.Errorf("tahun must be between 2020 and 2099")
	}
	if mingguKe < 1 || mingguKe > 5 {
		return fmt.Errorf("minggu_ke must be between 1 and 5")
	}
	return nil
}
