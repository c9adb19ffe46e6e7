package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/kaskelas/kas-kelas-be/internal/models"
)

// SettingsServiceProvider defines the interface for the settings resolver.
type SettingsServiceProvider interface {
	Fee(bulan, tahun int) (int64, error)
	WeekCount(bulan, tahun int) (int, error)
	IsConfigured(bulan, tahun int) (bool, error)
	Resolve(bulan, tahun int) (models.PeriodSettings, error)
	Update(in SettingsUpdate) (models.PeriodSettings, error)
}

// SettingsUpdate carries an admin settings write. When Month and Year
// are both set the write is period-scoped, otherwise it updates the
// global defaults.
type SettingsUpdate struct {
	WeeklyFee     *int64 `json:"weekly_fee"`
	WeeksPerMonth *int   `json:"weeks_per_month"`
	Month         *int   `json:"month"`
	Year          *int   `json:"year"`
}

func (u SettingsUpdate) periodScoped() bool {
	return u.Month != nil && u.Year != nil && *u.Month != 0 && *u.Year != 0
}

// SettingsService resolves the weekly fee and week count for periods.
// Reads always hit the database so admin edits are visible immediately;
// the heavy endpoints cache their own results instead.
type SettingsService struct {
	db     *sql.DB
	caches *Caches
	events EventPublisher
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *sql.DB, caches *Caches, events EventPublisher) *SettingsService {
	return &SettingsService{db: db, caches: caches, events: events}
}

func (s *SettingsService) getValue(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SettingsService) setValue(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// resolveInt looks up the period-scoped key first, then the global key,
// then falls back to def. Absent values are not an error.
func (s *SettingsService) resolveInt(param string, bulan, tahun int, def int64) (int64, error) {
	if bulan > 0 && tahun > 0 {
		val, ok, err := s.getValue(models.PeriodKey(param, bulan, tahun))
		if err != nil {
			return 0, err
		}
		if ok {
			return parseSettingValue(val, def), nil
		}
	}
	val, ok, err := s.getValue(param)
	if err != nil {
		return 0, err
	}
	if ok {
		return parseSettingValue(val, def), nil
	}
	return def, nil
}

func parseSettingValue(raw string, def int64) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// Fee returns the effective weekly fee for a period, 0 when unconfigured.
// Pass zeros to read the global default.
func (s *SettingsService) Fee(bulan, tahun int) (int64, error) {
	return s.resolveInt(models.ParamWeeklyFee, bulan, tahun, models.DefaultWeeklyFee)
}

// WeekCount returns the effective number of dues weeks for a period.
func (s *SettingsService) WeekCount(bulan, tahun int) (int, error) {
	n, err := s.resolveInt(models.ParamWeeksPerMonth, bulan, tahun, models.DefaultWeeksPerMonth)
	return int(n), err
}

// IsConfigured reports whether a period-scoped weekly fee has been
// explicitly set for the period. The UI blocks data entry on
// unconfigured months.
func (s *SettingsService) IsConfigured(bulan, tahun int) (bool, error) {
	if bulan <= 0 || tahun <= 0 {
		return false, nil
	}
	_, ok, err := s.getValue(models.PeriodKey(models.ParamWeeklyFee, bulan, tahun))
	return ok, err
}

// Resolve returns the full effective settings for a period.
func (s *SettingsService) Resolve(bulan, tahun int) (models.PeriodSettings, error) {
	fee, err := s.Fee(bulan, tahun)
	if err != nil {
		return models.PeriodSettings{}, err
	}
	weeks, err := s.WeekCount(bulan, tahun)
	if err != nil {
		return models.PeriodSettings{}, err
	}
	configured, err := s.IsConfigured(bulan, tahun)
	if err != nil {
		return models.PeriodSettings{}, err
	}
	return models.PeriodSettings{WeeklyFee: fee, WeeksPerMonth: weeks, IsConfigured: configured}, nil
}

// Update applies an admin settings write and drops the caches the
// change can affect.
func (s *SettingsService) Update(in SettingsUpdate) (models.PeriodSettings, error) {
	if in.periodScoped() {
		bulan, tahun := *in.Month, *in.Year
		if in.WeeklyFee != nil {
			if err := s.setValue(models.PeriodKey(models.ParamWeeklyFee, bulan, tahun), strconv.FormatInt(*in.WeeklyFee, 10)); err != nil {
				return models.PeriodSettings{}, fmt.Errorf("set period fee: %w", err)
			}
		}
		if in.WeeksPerMonth != nil {
			if err := s.setValue(models.PeriodKey(models.ParamWeeksPerMonth, bulan, tahun), strconv.Itoa(*in.WeeksPerMonth)); err != nil {
				return models.PeriodSettings{}, fmt.Errorf("set period weeks: %w", err)
			}
		}
		s.caches.InvalidatePeriod(bulan, tahun)
		s.publish(bulan, tahun)
		return s.Resolve(bulan, tahun)
	}

	if in.WeeklyFee != nil {
		if err := s.setValue(models.ParamWeeklyFee, strconv.FormatInt(*in.WeeklyFee, 10)); err != nil {
			return models.PeriodSettings{}, fmt.Errorf("set global fee: %w", err)
		}
	}
	if in.WeeksPerMonth != nil {
		if err := s.setValue(models.ParamWeeksPerMonth, strconv.Itoa(*in.WeeksPerMonth)); err != nil {
			return models.PeriodSettings{}, fmt.Errorf("set global weeks: %w", err)
		}
	}
	// A global change shifts the effective fee for every period that has
	// no override, so the arrears caches for the near future go too.
	s.caches.InvalidateGlobalSettings(time.Now())
	s.publish(0, 0)
	return s.Resolve(0, 0)
}

func (s *SettingsService) publish(bulan, tahun int) {
	if s.events == nil {
		return
	}
	s.events.Publish("settings.updated", map[string]int{"bulan": bulan, "tahun": tahun})
}
