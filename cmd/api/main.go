package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bluepeak/home-services-platform/internal/actions"
	"github.com/bluepeak/home-services-platform/internal/api/router"
	"github.com/bluepeak/home-services-platform/internal/audit"
	"github.com/bluepeak/home-services-platform/internal/capacity"
	appconfig "github.com/bluepeak/home-services-platform/internal/config"
	"github.com/bluepeak/home-services-platform/internal/housecall"
	"github.com/bluepeak/home-services-platform/internal/http/handlers"
	"github.com/bluepeak/home-services-platform/internal/observability/metrics"
	"github.com/bluepeak/home-services-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Audit store: Postgres when configured, log-only otherwise.
	var auditStore audit.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		auditStore = audit.NewPostgresStore(db)
	} else {
		logger.Warn("DATABASE_URL not set, audit events are log-only")
	}
	recorder := audit.NewRecorder(auditStore, logger)

	// Housecall Pro client (scheduling/CRM system of record).
	crm := housecall.NewClient(cfg.HousecallAPIKey, cfg.HousecallCompanyID, logger,
		housecall.WithBaseURL(cfg.HousecallBaseURL),
		housecall.WithTimeout(cfg.HousecallTimeout),
	)

	// Capacity calculator with optional Redis snapshot cache.
	var cache *capacity.SnapshotCache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		cache = capacity.NewSnapshotCache(redis.NewClient(opts), cfg.CapacityCacheTTL, logger)
	}
	// Prefer the live roster for the headcount; fall back to the configured
	// value when the CRM is unreachable at boot.
	headcount := cfg.TechHeadcount
	if n, err := crm.DispatchableTechCount(context.Background()); err != nil {
		logger.Warn("could not fetch tech headcount, using configured value", "error", err, "headcount", headcount)
	} else if n > 0 {
		headcount = n
	}
	calculator := capacity.NewCalculator(crm, headcount, cache, logger)

	dispatchMetrics := metrics.NewDispatchMetrics(prometheus.DefaultRegisterer)

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		logger.Warn("invalid BUSINESS_TIMEZONE, using server local time", "tz", cfg.BusinessTimezone, "error", err)
		loc = time.Local
	}

	dispatcher := actions.NewDispatcher(crm, calculator, recorder, dispatchMetrics, actions.Config{
		LeadSource:     cfg.BookingLeadSource,
		BusinessPhone:  cfg.BusinessPhone,
		DateWindowDays: cfg.CapacityWindowDays,
		Location:       loc,
	}, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		ActionsHandler:     actions.NewHandler(dispatcher, logger),
		AdminAudit:         handlers.NewAdminAuditHandler(recorder, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
