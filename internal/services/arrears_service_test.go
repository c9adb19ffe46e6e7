package services

import (
	"reflect"
	"testing"
)

func TestArrears_UnconfiguredPeriodIsEmpty(t *testing.T) {
	env := setupTestEnv(t)
	env.mustCreateUser(t, "240602001", "BUDI")

	report, err := env.arrears.ForPeriod(3, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if report.WeeklyFee != 0 {
		t.Errorf("expected weekly_fee 0, got %d", report.WeeklyFee)
	}
	if len(report.Data) != 0 {
		t.Errorf("expected empty arrears for unconfigured period, got %d entries", len(report.Data))
	}
}

func TestArrears_PartialPaymentOwesFullFee(t *testing.T) {
	env := setupTestEnv(t)
	user := env.mustCreateUser(t, "240602001", "BUDI")
	env.mustConfigure(t, 10000, 4, 3, 2025)

	env.mustRecord(t, user.ID, 3, 2025, 1, 10000)
	env.mustRecord(t, user.ID, 3, 2025, 2, 4000)

	report, err := env.arrears.ForPeriod(3, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if len(report.Data) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(report.Data))
	}

	entry := report.Data[0]
	if !reflect.DeepEqual(entry.UnpaidWeeks, []int{2, 3, 4}) {
		t.Errorf("expected unpaid weeks [2 3 4], got %v", entry.UnpaidWeeks)
	}
	// The partial 4000 toward week 2 does not reduce the tally.
	if entry.TotalUnpaid != 30000 {
		t.Errorf("expected total_unpaid 30000, got %d", entry.TotalUnpaid)
	}
}

func TestArrears_FullyPaidUserOmitted(t *testing.T) {
	env := setupTestEnv(t)
	paid := env.mustCreateUser(t, "240602001", "ANDI")
	unpaid := env.mustCreateUser(t, "240602002", "BUDI")
	env.mustConfigure(t, 10000, 2, 3, 2025)

	env.mustRecord(t, paid.ID, 3, 2025, 1, 10000)
	env.mustRecord(t, paid.ID, 3, 2025, 2, 10000)

	report, err := env.arrears.ForPeriod(3, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if len(report.Data) != 1 {
		t.Fatalf("expected exactly the unpaid user, got %d entries", len(report.Data))
	}
	if report.Data[0].ID != unpaid.ID {
		t.Errorf("expected entry for %s, got %s", unpaid.Nama, report.Data[0].Nama)
	}
	if len(report.Data[0].UnpaidWeeks) > 2 {
		t.Errorf("unpaid weeks exceed weeks_per_month: %v", report.Data[0].UnpaidWeeks)
	}
}

func TestArrears_OrderedByName(t *testing.T) {
	env := setupTestEnv(t)
	env.mustCreateUser(t, "240602002", "CITRA")
	env.mustCreateUser(t, "240602001", "ANDI")
	env.mustCreateUser(t, "240602003", "BUDI")
	env.mustConfigure(t, 10000, 4, 3, 2025)

	report, err := env.arrears.ForPeriod(3, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	var names []string
	for _, e := range report.Data {
		names = append(names, e.Nama)
	}
	if !reflect.DeepEqual(names, []string{"ANDI", "BUDI", "CITRA"}) {
		t.Errorf("expected alphabetical order, got %v", names)
	}
}

func TestArrears_CacheInvalidatedByPaymentWrite(t *testing.T) {
	env := setupTestEnv(t)
	user := env.mustCreateUser(t, "240602001", "BUDI")
	env.mustConfigure(t, 10000, 1, 3, 2025)

	report, err := env.arrears.ForPeriod(3, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if len(report.Data) != 1 {
		t.Fatalf("expected 1 entry before payment, got %d", len(report.Data))
	}

	// The write must drop the cached list; a fresh read sees the payment.
	env.mustRecord(t, user.ID, 3, 2025, 1, 10000)

	report, err = env.arrears.ForPeriod(3, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if len(report.Data) != 0 {
		t.Errorf("expected empty arrears after payment, got %d entries", len(report.Data))
	}
}
