package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	JWTSecret    string
	CORSOrigins  []string
	UploadDir    string // receipt image storage
	// StatsRefreshSpec is a cron expression controlling how often the
	// dashboard stats broadcast runs.
	StatsRefreshSpec string
	Seed             bool // seed the user roster on startup
}

// Load loads configuration from environment variables, reading a .env
// file first when one is present.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:       port,
		DatabasePath:     getEnv("DATABASE_PATH", "./kaskelas.db"),
		JWTSecret:        secret,
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		StatsRefreshSpec: getEnv("STATS_REFRESH_SPEC", "@every 1m"),
		Seed:             getEnv("SEED", "0") == "1",
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
