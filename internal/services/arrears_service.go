package services

import (
	"database/sql"

	"github.com/kaskelas/kas-kelas-be/internal/cache"
	"github.com/kaskelas/kas-kelas-be/internal/models"
)

// ArrearsServiceProvider defines the interface for the arrears calculator.
type ArrearsServiceProvider interface {
	ForPeriod(bulan, tahun int) (models.ArrearsReport, error)
}

// ArrearsService computes, per user, which weeks of a period are unpaid
// and how much is outstanding. Results are cached per period; every
// ledger or settings write for the period drops the entry.
type ArrearsService struct {
	db       *sql.DB
	settings SettingsServiceProvider
	caches   *Caches
}

// NewArrearsService creates a new ArrearsService.
func NewArrearsService(db *sql.DB, settings SettingsServiceProvider, caches *Caches) *ArrearsService {
	return &ArrearsService{db: db, settings: settings, caches: caches}
}

// ForPeriod returns the arrears list for one period. An unconfigured
// period (fee resolves to 0) yields an empty list, not an error: the UI
// shows "not configured" rather than "all users owe zero".
func (s *ArrearsService) ForPeriod(bulan, tahun int) (models.ArrearsReport, error) {
	key := cache.ArrearsKey(bulan, tahun)
	if report, ok := s.caches.Arrears.Get(key); ok {
		return report, nil
	}

	report, err := s.compute(bulan, tahun)
	if err != nil {
		return models.ArrearsReport{}, err
	}
	s.caches.Arrears.Set(key, report)
	return report, nil
}

func (s *ArrearsService) compute(bulan, tahun int) (models.ArrearsReport, error) {
	report := models.ArrearsReport{Bulan: bulan, Tahun: tahun, Data: []models.ArrearsEntry{}}

	fee, err := s.settings.Fee(bulan, tahun)
	if err != nil {
		return models.ArrearsReport{}, err
	}
	if fee <= 0 {
		return report, nil
	}
	report.WeeklyFee = fee

	weeks, err := s.settings.WeekCount(bulan, tahun)
	if err != nil {
		return models.ArrearsReport{}, err
	}

	users, err := allUsersByName(s.db)
	if err != nil {
		return models.ArrearsReport{}, err
	}
	paid, err := periodPayments(s.db, bulan, tahun)
	if err != nil {
		return models.ArrearsReport{}, err
	}

	for _, u := range users {
		userPaid := paid[u.ID]
		var unpaid []int
		for week := 1; week <= weeks; week++ {
			if userPaid[week] < fee {
				unpaid = append(unpaid, week)
			}
		}
		if len(unpaid) == 0 {
			continue
		}
		// Partial payments do not reduce the tally: an unpaid week owes
		// the full fee.
		report.Data = append(report.Data, models.ArrearsEntry{
			ID:          u.ID,
			NIM:         u.NIM,
			Nama:        u.Nama,
			UnpaidWeeks: unpaid,
			TotalUnpaid: int64(len(unpaid)) * fee,
		})
	}
	return report, nil
}
