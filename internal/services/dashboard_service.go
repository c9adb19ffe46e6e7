package services

import (
	"database/sql"
	"time"

	"github.com/kaskelas/kas-kelas-be/internal/cache"
	"github.com/kaskelas/kas-kelas-be/internal/models"
)

// DashboardServiceProvider defines the interface for the dashboard
// aggregator.
type DashboardServiceProvider interface {
	Stats() (models.DashboardStats, error)
}

// DashboardService computes the summary figures shown on the dashboard.
// The result is cached under a single key; every income, expense or
// settings mutation drops it.
type DashboardService struct {
	db      *sql.DB
	arrears ArrearsServiceProvider
	caches  *Caches

	// now is swappable so tests can pin the current month.
	now func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db *sql.DB, arrears ArrearsServiceProvider, caches *Caches) *DashboardService {
	return &DashboardService{db: db, arrears: arrears, caches: caches, now: time.Now}
}

// Stats returns the aggregated treasury summary.
func (s *DashboardService) Stats() (models.DashboardStats, error) {
	if stats, ok := s.caches.Dashboard.Get(cache.DashboardKey); ok {
		return stats, nil
	}

	stats, err := s.compute()
	if err != nil {
		return models.DashboardStats{}, err
	}
	s.caches.Dashboard.Set(cache.DashboardKey, stats)
	return stats, nil
}

func (s *DashboardService) compute() (models.DashboardStats, error) {
	now := s.now()
	currentMonth := int(now.Month())
	currentYear := now.Year()

	var stats models.DashboardStats

	err := s.db.QueryRow("SELECT COALESCE(SUM(nominal), 0) FROM payments").Scan(&stats.TotalIncome)
	if err != nil {
		return models.DashboardStats{}, err
	}

	var totalExpense int64
	err = s.db.QueryRow("SELECT COALESCE(SUM(nominal), 0) FROM expenses").Scan(&totalExpense)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats.Balance = stats.TotalIncome - totalExpense

	// Income is attributed to the period a payment is FOR (bulan/tahun),
	// not the date it was logged.
	err = s.db.QueryRow(
		"SELECT COALESCE(SUM(nominal), 0) FROM payments WHERE bulan = ? AND tahun = ?",
		currentMonth, currentYear,
	).Scan(&stats.IncomeThisMonth)
	if err != nil {
		return models.DashboardStats{}, err
	}

	// Expenses filter on the spend date.
	err = s.db.QueryRow(
		"SELECT COALESCE(SUM(nominal), 0) FROM expenses WHERE CAST(strftime('%m', tanggal) AS INTEGER) = ? AND CAST(strftime('%Y', tanggal) AS INTEGER) = ?",
		currentMonth, currentYear,
	).Scan(&stats.ExpenseThisMonth)
	if err != nil {
		return models.DashboardStats{}, err
	}

	// With no configured fee the arrears list is empty, so the count is
	// 0 rather than an error.
	report, err := s.arrears.ForPeriod(currentMonth, currentYear)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats.ArrearsCount = len(report.Data)

	return stats, nil
}
