package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/kaskelas/kas-kelas-be/internal/api/handlers"
	"github.com/kaskelas/kas-kelas-be/internal/auth"
	"github.com/kaskelas/kas-kelas-be/internal/metrics"
	"github.com/kaskelas/kas-kelas-be/internal/services"
	"github.com/kaskelas/kas-kelas-be/internal/websocket"
)

// Deps bundles everything the router needs.
type Deps struct {
	Hub         *websocket.Hub
	Users       services.UserServiceProvider
	Payments    services.PaymentServiceProvider
	Expenses    services.ExpenseServiceProvider
	Settings    services.SettingsServiceProvider
	Arrears     services.ArrearsServiceProvider
	Dashboard   services.DashboardServiceProvider
	Leaderboard services.LeaderboardServiceProvider
	Reset       services.ResetServiceProvider
	CORSOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Users)
	userHandler := handlers.NewUserHandler(d.Users, d.Payments)
	paymentHandler := handlers.NewPaymentHandler(d.Payments)
	expenseHandler := handlers.NewExpenseHandler(d.Expenses)
	settingsHandler := handlers.NewSettingsHandler(d.Settings)
	arrearsHandler := handlers.NewArrearsHandler(d.Arrears)
	dashboardHandler := handlers.NewDashboardHandler(d.Dashboard)
	leaderboardHandler := handlers.NewLeaderboardHandler(d.Leaderboard)
	resetHandler := handlers.NewResetHandler(d.Reset)
	exportHandler := handlers.NewExportHandler(d.Payments, d.Expenses, d.Settings, d.Users)
	wsHandler := handlers.NewWebSocketHandler(d.Hub)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method("GET", "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/login", authHandler.Login)

		// Export downloads authenticate via ?token= because browser
		// navigation cannot set an Authorization header.
		r.Group(func(r chi.Router) {
			r.Use(auth.QueryTokenMiddleware())
			r.Get("/export/global", exportHandler.Global)
			r.Get("/export/pengeluaran", exportHandler.Pengeluaran)
			r.Get("/export/personal", exportHandler.Personal)
		})

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware())

			r.Get("/ws", wsHandler.Serve)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.Get("/dashboard/stats", dashboardHandler.Stats)

			r.Get("/pemasukan", paymentHandler.List)
			r.Get("/pemasukan/matrix", paymentHandler.Matrix)
			r.Get("/pemasukan/my-payments", paymentHandler.MyPayments)

			r.Get("/pengeluaran", expenseHandler.List)
			r.Get("/pengeluaran/{id}", expenseHandler.Get)

			r.Get("/leaderboard", leaderboardHandler.List)
			r.Get("/settings", settingsHandler.Get)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(auth.AdminOnly())

				r.Post("/auth/reset-password", authHandler.ResetPassword)

				r.Get("/users", userHandler.List)
				r.Get("/users/{id}", userHandler.Get)

				r.Post("/pemasukan", paymentHandler.Store)
				r.Post("/pemasukan/bulk", paymentHandler.BulkStore)
				r.Put("/pemasukan/{id}", paymentHandler.Update)
				r.Delete("/pemasukan/{id}", paymentHandler.Delete)

				r.Post("/pengeluaran", expenseHandler.Store)
				r.Put("/pengeluaran/{id}", expenseHandler.Update)
				r.Delete("/pengeluaran/{id}", expenseHandler.Delete)

				r.Get("/arrears", arrearsHandler.List)
				r.Put("/settings", settingsHandler.Update)
				r.Post("/reset-data", resetHandler.ResetAllData)
			})
		})
	})

	return r
}

// requestLogger logs each request with zerolog and records the
// Prometheus counters.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", elapsed).
			Msg("Request handled")
	})
}
