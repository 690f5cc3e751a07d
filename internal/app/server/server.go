package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrms/internal/domain/announcements"
	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/evaluation"
	"hrms/internal/domain/messages"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/reports"
	"hrms/internal/domain/tasks"
	"hrms/internal/domain/training"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
	announcementshandler "hrms/internal/transport/http/handlers/announcements"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	authhandler "hrms/internal/transport/http/handlers/auth"
	corehandler "hrms/internal/transport/http/handlers/core"
	evaluationhandler "hrms/internal/transport/http/handlers/evaluation"
	messageshandler "hrms/internal/transport/http/handlers/messages"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	reportshandler "hrms/internal/transport/http/handlers/reports"
	taskshandler "hrms/internal/transport/http/handlers/tasks"
	traininghandler "hrms/internal/transport/http/handlers/training"
	"hrms/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	mailer := email.New(cfg)

	authStore := auth.NewStore(pool)
	coreService := core.NewService(core.NewStore(pool))
	evaluationService := evaluation.NewService(evaluation.NewStore(pool),
		evaluation.WithRosterStatuses(cfg.EvaluationRosterStatus),
		evaluation.WithHRScores(cfg.EvaluationUseHRScores),
	)
	attendanceService := attendance.NewService(attendance.NewStore(pool), cfg.WorkdayStart)
	tasksService := tasks.NewService(tasks.NewStore(pool))
	trainingService := training.NewService(training.NewStore(pool))
	announcementsService := announcements.New(pool)
	messagesService := messages.New(pool)
	notifyService := notifications.New(notifications.NewStore(pool), mailer, cfg.EmailFrom)
	auditService := audit.New(pool)
	reportsService := reports.NewService(reports.NewStore(pool))

	jobService := jobs.New(pool, cfg)
	jobService.Start(ctx)

	collector := metrics.New()
	if cfg.MetricsEnabled {
		if err := collector.Register(prometheus.DefaultRegisterer); err != nil {
			slog.Warn("metrics registration failed", "err", err)
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	}
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
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, cfg.JWTSecret, 0, mailer, cfg.EmailFrom)
		authHandler.RegisterPublicRoutes(r)
		authHandler.RegisterRoutes(r)

		corehandler.NewHandler(coreService, authStore, auditService).RegisterRoutes(r)
		evaluationhandler.NewHandler(evaluationService, authStore, notifyService, auditService).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, coreService, authStore).RegisterRoutes(r)
		taskshandler.NewHandler(tasksService, coreService, authStore, notifyService).RegisterRoutes(r)
		traininghandler.NewHandler(trainingService, coreService, authStore, notifyService).RegisterRoutes(r)
		announcementshandler.NewHandler(announcementsService, authStore, authStore, notifyService).RegisterRoutes(r)
		messageshandler.NewHandler(messagesService, authStore, notifyService).RegisterRoutes(r)
		notificationshandler.NewHandler(notifyService).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, auditService, authStore).RegisterRoutes(r)
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
