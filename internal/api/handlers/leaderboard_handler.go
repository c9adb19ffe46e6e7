package handlers

import (
	"net/http"
	"strconv"

	"github.com/kaskelas/kas-kelas-be/internal/services"
)

// LeaderboardHandler serves the contributor ranking.
type LeaderboardHandler struct {
	service services.LeaderboardServiceProvider
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(service services.LeaderboardServiceProvider) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// List returns the top contributors.
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	entries, err := h.service.Top(limit)
	if err != nil {
		writeServiceError(w, err, "Failed to build leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
