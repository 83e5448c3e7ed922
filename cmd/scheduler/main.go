package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"eventcrm_backend/internal/catalog"
	"eventcrm_backend/internal/events"
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

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	notificationModule := notification.NewModule(cfg, log)
	notificationModule.Register(eventBus)

	val := validator.New()

	websiteClient := websiteapi.New(websiteapi.Config{
		BaseURL:  cfg.GetWebsiteAPIBaseURL(),
		Username: cfg.GetWebsiteAPIUsername(),
		Password: cfg.GetWebsiteAPIPassword(),
		Timeout:  cfg.GetWebsiteAPITimeout(),
		TokenTTL: cfg.GetWebsiteTokenTTL(),
	}, log)

	// Worker-side import wiring (no HTTP handlers required).
	catalogModule := catalog.NewModule(pool, val, log)
	leadsModule := leads.NewModule(pool, websiteClient, catalogModule.Repository(), eventBus, cfg, val, log, nil)

	worker, err := scheduler.NewWorker(cfg, leadsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}

	log.Info("scheduler running",
		"queue", cfg.GetAsynqQueueName(),
		"syncInterval", cfg.GetWebsiteSyncInterval().String())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		periodic.Run(ctx)
	}()
	wg.Wait()

	log.Info("scheduler stopped")
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
