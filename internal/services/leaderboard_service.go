package services

import (
	"database/sql"

	"github.com/kaskelas/kas-kelas-be/internal/models"
)

// LeaderboardServiceProvider defines the interface for the contributor
// leaderboard.
type LeaderboardServiceProvider interface {
	Top(limit int) ([]models.LeaderboardEntry, error)
}

// LeaderboardService ranks members by all-time contributions.
type LeaderboardService struct {
	db *sql.DB
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(db *sql.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// Top returns the highest contributors, largest total first.
func (s *LeaderboardService) Top(limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`SELECT u.nim, u.nama,
			COALESCE(SUM(p.nominal), 0) AS total_amount,
			COUNT(p.id) AS payment_count
		FROM users u
		LEFT JOIN payments p ON p.user_id = u.id
		GROUP BY u.id, u.nim, u.nama
		ORDER BY total_amount DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.NIM, &e.Nama, &e.TotalAmount, &e.PaymentCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
