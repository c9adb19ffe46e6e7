package services

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ResetServiceProvider defines the interface for the global data reset.
type ResetServiceProvider interface {
	ResetAllData() error
}

// ResetService wipes the financial ledgers and settings. Users survive;
// only money data and configuration are cleared.
type ResetService struct {
	db     *sql.DB
	caches *Caches
	events EventPublisher
}

// NewResetService creates a new ResetService.
func NewResetService(db *sql.DB, caches *Caches, events EventPublisher) *ResetService {
	return &ResetService{db: db, caches: caches, events: events}
}

// ResetAllData deletes every payment, expense and setting, then flushes
// the caches so no stale aggregate survives. Irreversible.
func (s *ResetService) ResetAllData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"payments", "expenses", "settings"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}

	s.caches.Flush()
	if s.events != nil {
		s.events.Publish("data.reset", nil)
	}
	log.Warn().Msg("All financial data and settings were reset")
	return nil
}
