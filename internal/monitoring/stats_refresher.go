// Package monitoring runs the background loop that keeps connected
// clients' dashboards fresh.
package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/kaskelas/kas-kelas-be/internal/services"
	"github.com/kaskelas/kas-kelas-be/internal/websocket"
)

// StatsRefresher periodically recomputes the dashboard stats and
// broadcasts them over the websocket hub.
type StatsRefresher struct {
	dashboard services.DashboardServiceProvider
	hub       *websocket.Hub
	schedule  cron.Schedule
	done      chan bool
}

// NewStatsRefresher creates a refresher from a cron expression such as
// "@every 1m" or "*/5 * * * *".
func NewStatsRefresher(dashboard services.DashboardServiceProvider, hub *websocket.Hub, spec string) (*StatsRefresher, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid stats refresh schedule %q: %w", spec, err)
	}
	return &StatsRefresher{
		dashboard: dashboard,
		hub:       hub,
		schedule:  schedule,
		done:      make(chan bool),
	}, nil
}

// Run starts the refresher loop. Call in a goroutine.
func (r *StatsRefresher) Run() {
	log.Info().Msg("Starting dashboard stats refresher...")

	// Push once immediately so clients get data on connect.
	r.refresh()

	for {
		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-r.done:
			timer.Stop()
			log.Info().Msg("Stopping dashboard stats refresher.")
			return
		case <-timer.C:
			r.refresh()
		}
	}
}

// Stop halts the refresher.
func (r *StatsRefresher) Stop() {
	r.done <- true
}

func (r *StatsRefresher) refresh() {
	stats, err := r.dashboard.Stats()
	if err != nil {
		log.Error().Err(err).Msg("Stats refresher: failed to compute dashboard stats")
		return
	}
	r.hub.Publish("dashboard.stats", stats)
}
