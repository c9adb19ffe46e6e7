package services

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kaskelas/kas-kelas-be/internal/database"
	"github.com/kaskelas/kas-kelas-be/internal/models"
)

// eventRecorder captures published event types for assertions.
type eventRecorder struct {
	mu    sync.Mutex
	types []string
}

func (r *eventRecorder) Publish(eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
}

func (r *eventRecorder) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func (r *eventRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.types) == 0 {
		t.Fatal("expected at least one published event")
	}
	return r.types[len(r.types)-1]
}

// testEnv wires the full service graph onto a throwaway database.
type testEnv struct {
	db          *sql.DB
	caches      *Caches
	events      *eventRecorder
	users       *UserService
	settings    *SettingsService
	payments    *PaymentService
	expenses    *ExpenseService
	arrears     *ArrearsService
	dashboard   *DashboardService
	leaderboard *LeaderboardService
	reset       *ResetService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	caches := NewCaches(nil)
	events := &eventRecorder{}
	users := NewUserService(db)
	settings := NewSettingsService(db, caches, events)
	payments := NewPaymentService(db, settings, caches, events)
	expenses := NewExpenseService(db, caches, events, filepath.Join(dir, "uploads"))
	arrears := NewArrearsService(db, settings, caches)
	dashboard := NewDashboardService(db, arrears, caches)
	leaderboard := NewLeaderboardService(db)
	reset := NewResetService(db, caches, events)

	return &testEnv{
		db:          db,
		caches:      caches,
		events:      events,
		users:       users,
		settings:    settings,
		payments:    payments,
		expenses:    expenses,
		arrears:     arrears,
		dashboard:   dashboard,
		leaderboard: leaderboard,
		reset:       reset,
	}
}

func (e *testEnv) mustCreateUser(t *testing.T, nim, nama string) models.User {
	t.Helper()
	u, err := e.users.CreateUser(nim, nama, models.RoleMember)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", nim, err)
	}
	return u
}

// mustConfigure sets the period fee and week count.
func (e *testEnv) mustConfigure(t *testing.T, fee int64, weeks, bulan, tahun int) {
	t.Helper()
	_, err := e.settings.Update(SettingsUpdate{
		WeeklyFee:     &fee,
		WeeksPerMonth: &weeks,
		Month:         &bulan,
		Year:          &tahun,
	})
	if err != nil {
		t.Fatalf("failed to configure period %d/%d: %v", bulan, tahun, err)
	}
}

func (e *testEnv) mustRecord(t *testing.T, userID string, bulan, tahun, week int, nominal int64) {
	t.Helper()
	if _, _, err := e.payments.Record(userID, bulan, tahun, week, nominal); err != nil {
		t.Fatalf("failed to record payment: %v", err)
	}
}
