package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"hradmin/internal/domain/attendance"
	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/employee"
	"hradmin/internal/domain/leave"
	"hradmin/internal/domain/org"
	"hradmin/internal/domain/salary"
	"hradmin/internal/domain/stats"
	"hradmin/internal/platform/config"
	"hradmin/internal/platform/db"
	attendancehandler "hradmin/internal/transport/http/handlers/attendance"
	authhandler "hradmin/internal/transport/http/handlers/auth"
	employeehandler "hradmin/internal/transport/http/handlers/employee"
	leavehandler "hradmin/internal/transport/http/handlers/leave"
	orghandler "hradmin/internal/transport/http/handlers/org"
	salaryhandler "hradmin/internal/transport/http/handlers/salary"
	statshandler "hradmin/internal/transport/http/handlers/stats"
	userhandler "hradmin/internal/transport/http/handlers/user"
	"hradmin/internal/transport/http/middleware"
)

func Run() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			logger.Error("seed failed", "error", err)
			os.Exit(1)
		}
	}

	workdayStart, err := attendance.ParseWorkdayStart(cfg.WorkdayStart)
	if err != nil {
		logger.Error("invalid workday start", "error", err)
		os.Exit(1)
	}

	userStore := auth.NewStore(pool)
	employeeStore := employee.NewStore(pool)
	orgStore := org.NewStore(pool)
	salaryService := salary.NewService(salary.NewStore(pool), employeeStore)
	attendanceService := attendance.NewService(attendance.NewStore(pool), workdayStart)
	leaveService := leave.NewService(leave.NewStore(pool), int(cfg.AnnualLeaveDays))
	statsStore := stats.NewStore(pool)
	policy := auth.NewPolicy()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(userStore, cfg).RegisterRoutes(r)
		orghandler.NewHandler(orgStore, policy).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore, policy).RegisterRoutes(r)
		userhandler.NewHandler(userStore, policy).RegisterRoutes(r)
		salaryhandler.NewHandler(salaryService, policy).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, policy).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, policy).RegisterRoutes(r)
		statshandler.NewHandler(statsStore, policy).RegisterRoutes(r)
	})

	logger.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
