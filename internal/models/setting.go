package models

import "fmt"

// Setting parameters. Each exists as a global key and optionally as
// period-scoped keys of the form "{param}_{tahun}_{bulan}".
const (
	ParamWeeklyFee     = "weekly_fee"
	ParamWeeksPerMonth = "weeks_per_month"
)

// Hard defaults applied when neither a period nor a global value is set.
const (
	DefaultWeeklyFee     = 0
	DefaultWeeksPerMonth = 4
)

// PeriodKey builds the settings key for a parameter scoped to one
// (month, year) period.
func PeriodKey(param string, bulan, tahun int) string {
	return fmt.Sprintf("%s_%d_%d", param, tahun, bulan)
}

// PeriodSettings is the resolved configuration for one period.
type PeriodSettings struct {
	WeeklyFee     int64 `json:"weekly_fee"`
	WeeksPerMonth int   `json:"weeks_per_month"`
	// IsConfigured is true only when a period-scoped weekly fee has
	// been explicitly set for the requested period.
	IsConfigured bool `json:"is_configured"`
}
