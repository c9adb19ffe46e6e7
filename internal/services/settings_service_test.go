package services

import "testing"

func TestSettings_Defaults(t *testing.T) {
	env := setupTestEnv(t)

	fee, err := env.settings.Fee(3, 2025)
	if err != nil {
		t.Fatalf("Fee failed: %v", err)
	}
	if fee != 0 {
		t.Errorf("expected default fee 0, got %d", fee)
	}

	weeks, err := env.settings.WeekCount(3, 2025)
	if err != nil {
		t.Fatalf("WeekCount failed: %v", err)
	}
	if weeks != 4 {
		t.Errorf("expected default week count 4, got %d", weeks)
	}

	configured, err := env.settings.IsConfigured(3, 2025)
	if err != nil {
		t.Fatalf("IsConfigured failed: %v", err)
	}
	if configured {
		t.Error("expected unconfigured period")
	}
}

func TestSettings_PeriodRoundTripAndIsolation(t *testing.T) {
	env := setupTestEnv(t)

	globalFee := int64(5000)
	if _, err := env.settings.Update(SettingsUpdate{WeeklyFee: &globalFee}); err != nil {
		t.Fatalf("global update failed: %v", err)
	}
	env.mustConfigure(t, 15000, 4, 3, 2025)

	fee, err := env.settings.Fee(3, 2025)
	if err != nil {
		t.Fatalf("Fee failed: %v", err)
	}
	if fee != 15000 {
		t.Errorf("expected period fee 15000, got %d", fee)
	}

	// A neighboring period still sees the global default.
	fee, err = env.settings.Fee(4, 2025)
	if err != nil {
		t.Fatalf("Fee failed: %v", err)
	}
	if fee != 5000 {
		t.Errorf("expected global fee 5000 for 4/2025, got %d", fee)
	}

	configured, err := env.settings.IsConfigured(3, 2025)
	if err != nil {
		t.Fatalf("IsConfigured failed: %v", err)
	}
	if !configured {
		t.Error("expected 3/2025 to be configured")
	}
	configured, err = env.settings.IsConfigured(4, 2025)
	if err != nil {
		t.Fatalf("IsConfigured failed: %v", err)
	}
	if configured {
		t.Error("expected 4/2025 to be unconfigured despite global fee")
	}
}

func TestSettings_UpsertOverwrites(t *testing.T) {
	env := setupTestEnv(t)

	env.mustConfigure(t, 10000, 4, 1, 2025)
	env.mustConfigure(t, 12000, 5, 1, 2025)

	resolved, err := env.settings.Resolve(1, 2025)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.WeeklyFee != 12000 {
		t.Errorf("expected overwritten fee 12000, got %d", resolved.WeeklyFee)
	}
	if resolved.WeeksPerMonth != 5 {
		t.Errorf("expected overwritten weeks 5, got %d", resolved.WeeksPerMonth)
	}
	if !resolved.IsConfigured {
		t.Error("expected period to be configured")
	}
}

func TestSettings_GlobalWriteInvalidatesArrearsCache(t *testing.T) {
	env := setupTestEnv(t)
	user := env.mustCreateUser(t, "240602001", "BUDI")

	env.mustConfigure(t, 10000, 4, 6, 2025)
	env.mustRecord(t, user.ID, 6, 2025, 1, 10000)

	// Prime the arrears cache.
	before, err := env.arrears.ForPeriod(6, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if len(before.Data) != 1 {
		t.Fatalf("expected 1 user in arrears, got %d", len(before.Data))
	}

	// The period override wins, so change it rather than the global to
	// observe a visible difference after invalidation.
	env.mustConfigure(t, 10000, 1, 6, 2025)

	after, err := env.arrears.ForPeriod(6, 2025)
	if err != nil {
		t.Fatalf("ForPeriod failed: %v", err)
	}
	if len(after.Data) != 0 {
		t.Errorf("expected no arrears after shrinking the period to 1 paid week, got %d", len(after.Data))
	}
}
