package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kaskelas/kas-kelas-be/internal/api"
	"github.com/kaskelas/kas-kelas-be/internal/cache"
	"github.com/kaskelas/kas-kelas-be/internal/config"
	"github.com/kaskelas/kas-kelas-be/internal/database"
	"github.com/kaskelas/kas-kelas-be/internal/logger"
	"github.com/kaskelas/kas-kelas-be/internal/monitoring"
	"github.com/kaskelas/kas-kelas-be/internal/services"
	"github.com/kaskelas/kas-kelas-be/internal/websocket"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up caches with periodic cleanup
	cacheManager := cache.NewManager()
	caches := services.NewCaches(cacheManager)
	cacheManager.StartCleanup(5 * time.Minute)

	// Set up WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	settingsService := services.NewSettingsService(db, caches, hub)
	paymentService := services.NewPaymentService(db, settingsService, caches, hub)
	expenseService := services.NewExpenseService(db, caches, hub, cfg.UploadDir)
	arrearsService := services.NewArrearsService(db, settingsService, caches)
	dashboardService := services.NewDashboardService(db, arrearsService, caches)
	leaderboardService := services.NewLeaderboardService(db)
	resetService := services.NewResetService(db, caches, hub)

	if cfg.Seed {
		if err := userService.SeedRoster(services.DefaultRoster()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed user roster")
		}
	}

	// Set up and run the background stats broadcaster
	refresher, err := monitoring.NewStatsRefresher(dashboardService, hub, cfg.StatsRefreshSpec)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stats refresher")
	}
	go refresher.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Hub:         hub,
		Users:       userService,
		Payments:    paymentService,
		Expenses:    expenseService,
		Settings:    settingsService,
		Arrears:     arrearsService,
		Dashboard:   dashboardService,
		Leaderboard: leaderboardService,
		Reset:       resetService,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	refresher.Stop()
	cacheManager.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
