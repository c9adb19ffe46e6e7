package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.DatabasePath != "./kaskelas.db" {
		t.Errorf("unexpected default database path %q", cfg.DatabasePath)
	}
	if cfg.StatsRefreshSpec != "@every 1m" {
		t.Errorf("unexpected default refresh spec %q", cfg.StatsRefreshSpec)
	}
	if cfg.Seed {
		t.Error("expected seeding disabled by default")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected an error when JWT_SECRET is unset")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Error("expected an error for a non-numeric PORT")
	}
}

func TestLoad_CORSList(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"http://a.example", "http://b.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("expected origins %v, got %v", want, cfg.CORSOrigins)
	}
}

func TestLoad_SeedFlag(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SEED", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Seed {
		t.Error("expected seeding enabled with SEED=1")
	}
}
