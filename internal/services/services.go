// Package services contains the business logic behind the API. Every
// service reads and writes through *sql.DB directly and owns the cache
// invalidation for the data it mutates.
package services

import (
	"errors"
	"time"

	"github.com/kaskelas/kas-kelas-be/internal/cache"
	"github.com/kaskelas/kas-kelas-be/internal/models"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFeeNotConfigured   = errors.New("weekly fee not configured for this period")
)

// EventPublisher pushes treasury events to connected clients. The
// websocket hub implements it; services tolerate a nil publisher.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// Cache TTLs. Invalidation on writes is the real freshness mechanism;
// these are backstops.
const (
	dashboardTTL = time.Minute
	arrearsTTL   = 10 * time.Minute
)

// Caches bundles the process-wide result caches so every service
// invalidates through one place instead of scattering key deletes.
type Caches struct {
	Dashboard *cache.Store[models.DashboardStats]
	Arrears   *cache.Store[models.ArrearsReport]
}

// NewCaches creates the dashboard and arrears caches and registers them
// with the manager for periodic cleanup.
func NewCaches(m *cache.Manager) *Caches {
	c := &Caches{
		Dashboard: cache.NewStore[models.DashboardStats]("dashboard", dashboardTTL),
		Arrears:   cache.NewStore[models.ArrearsReport]("arrears", arrearsTTL),
	}
	if m != nil {
		m.Register(c.Dashboard)
		m.Register(c.Arrears)
	}
	return c
}

// InvalidatePeriod drops the cached results affected by a ledger write
// in the given period.
func (c *Caches) InvalidatePeriod(bulan, tahun int) {
	c.Dashboard.Delete(cache.DashboardKey)
	c.Arrears.Delete(cache.ArrearsKey(bulan, tahun))
}

// InvalidateDashboard drops only the dashboard summary.
func (c *Caches) InvalidateDashboard() {
	c.Dashboard.Delete(cache.DashboardKey)
}

// InvalidateGlobalSettings drops everything a global settings change can
// affect: the dashboard plus the arrears lists for all twelve months of
// the current and next calendar year.
func (c *Caches) InvalidateGlobalSettings(now time.Time) {
	c.Dashboard.Delete(cache.DashboardKey)
	year := now.Year()
	for month := 1; month <= 12; month++ {
		c.Arrears.Delete(cache.ArrearsKey(month, year))
		c.Arrears.Delete(cache.ArrearsKey(month, year+1))
	}
}

// Flush empties both caches. Used by the global data reset.
func (c *Caches) Flush() {
	c.Dashboard.Flush()
	c.Arrears.Flush()
}
