package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventcrm_backend/internal/catalog"
	"eventcrm_backend/internal/events"
	apphttp "eventcrm_backend/internal/http"
	"eventcrm_backend/internal/http/router"
	"eventcrm_backend/internal/leads"
	"eventcrm_backend/internal/notification"
	"eventcrm_backend/internal/scheduler"
	"eventcrm_backend/internal/websiteapi"
	"eventcrm_backend/platform/config"
	"eventcrm_backend/platform/db"
	"eventcrm_backend/platform/logger"
	"eventcrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Upstream website API client
	websiteClient := websiteapi.New(websiteapi.Config{
		BaseURL:  cfg.GetWebsiteAPIBaseURL(),
		Username: cfg.GetWebsiteAPIUsername(),
		Password: cfg.GetWebsiteAPIPassword(),
		Timeout:  cfg.GetWebsiteAPITimeout(),
		TokenTTL: cfg.GetWebsiteTokenTTL(),
	}, log)
	if cfg.IsWebsiteAPIEnabled() {
		log.Info("website API client initialized", "baseURL", cfg.GetWebsiteAPIBaseURL())
	} else {
		log.Warn("WEBSITE_API_BASE_URL not configured; lead import disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(cfg, log)
	notificationModule.Register(eventBus)

	// Task queue client for the operator-triggered background sync endpoint.
	var syncClient *scheduler.Client
	if cfg.GetRedisURL() != "" {
		syncClient, err = scheduler.NewClient(cfg)
		if err != nil {
			log.Warn("sync queue unavailable; POST /leads/sync disabled", "error", err)
			syncClient = nil
		} else {
			defer syncClient.Close()
		}
	}

	catalogModule := catalog.NewModule(pool, val, log)
	leadsModule := leads.NewModule(pool, websiteClient, catalogModule.Repository(), eventBus, cfg, val, log, syncClient)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			leadsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
