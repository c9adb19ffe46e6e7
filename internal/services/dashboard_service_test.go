package services

import (
	"testing"
	"time"
)

// pinNow fixes the dashboard's notion of "this month".
func pinNow(env *testEnv, year int, month time.Month) {
	env.dashboard.now = func() time.Time {
		return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestDashboard_BalanceInvariant(t *testing.T) {
	env := setupTestEnv(t)
	pinNow(env, 2025, time.March)
	user := env.mustCreateUser(t, "240602001", "BUDI")

	env.mustRecord(t, user.ID, 3, 2025, 1, 10000)
	env.mustRecord(t, user.ID, 2, 2025, 1, 8000)
	if _, err := env.expenses.Create("Spidol", 5000, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil); err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	stats, err := env.dashboard.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalIncome != 18000 {
		t.Errorf("expected total income 18000, got %d", stats.TotalIncome)
	}
	if stats.Balance != 13000 {
		t.Errorf("expected balance 13000, got %d", stats.Balance)
	}
	// Income attribution follows the payment's own period, not the day
	// it was logged: only the March row counts for March.
	if stats.IncomeThisMonth != 10000 {
		t.Errorf("expected income this month 10000, got %d", stats.IncomeThisMonth)
	}
	if stats.ExpenseThisMonth != 5000 {
		t.Errorf("expected expense this month 5000, got %d", stats.ExpenseThisMonth)
	}
}

func TestDashboard_ArrearsCountZeroWhenUnconfigured(t *testing.T) {
	env := setupTestEnv(t)
	pinNow(env, 2025, time.March)
	env.mustCreateUser(t, "240602001", "BUDI")

	stats, err := env.dashboard.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	// Unconfigured fee yields an empty arrears list, never an error.
	if stats.ArrearsCount != 0 {
		t.Errorf("expected arrears count 0 for unconfigured month, got %d", stats.ArrearsCount)
	}
}

func TestDashboard_ArrearsCountCurrentMonth(t *testing.T) {
	env := setupTestEnv(t)
	pinNow(env, 2025, time.March)
	paid := env.mustCreateUser(t, "240602001", "ANDI")
	env.mustCreateUser(t, "240602002", "BUDI")
	env.mustConfigure(t, 10000, 1, 3, 2025)

	env.mustRecord(t, paid.ID, 3, 2025, 1, 10000)

	stats, err := env.dashboard.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.ArrearsCount != 1 {
		t.Errorf("expected arrears count 1, got %d", stats.ArrearsCount)
	}
}

func TestDashboard_ZeroAfterReset(t *testing.T) {
	env := setupTestEnv(t)
	pinNow(env, 2025, time.March)
	user := env.mustCreateUser(t, "240602001", "BUDI")
	env.mustConfigure(t, 10000, 4, 3, 2025)

	env.mustRecord(t, user.ID, 3, 2025, 1, 10000)
	if _, err := env.expenses.Create("Spidol", 5000, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil); err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	// Prime both caches so the reset has something to flush.
	if _, err := env.dashboard.Stats(); err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if _, err := env.arrears.ForPeriod(3, 2025); err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}

	if err := env.reset.ResetAllData(); err != nil {
		t.Fatalf("ResetAllData failed: %v", err)
	}

	stats, err := env.dashboard.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Balance != 0 || stats.TotalIncome != 0 || stats.IncomeThisMonth != 0 || stats.ExpenseThisMonth != 0 || stats.ArrearsCount != 0 {
		t.Errorf("expected all-zero stats after reset, got %+v", stats)
	}

	report, err := env.arrears.ForPeriod(3, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if report.WeeklyFee != 0 || len(report.Data) != 0 {
		t.Errorf("expected empty arrears with fee 0 after reset, got %+v", report)
	}
}

func TestDashboard_CacheInvalidatedByExpenseWrite(t *testing.T) {
	env := setupTestEnv(t)
	pinNow(env, 2025, time.March)

	if _, err := env.dashboard.Stats(); err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if _, err := env.expenses.Create("Spidol", 5000, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil); err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	stats, err := env.dashboard.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Balance != -5000 {
		t.Errorf("expected fresh balance -5000 after expense write, got %d", stats.Balance)
	}
}
