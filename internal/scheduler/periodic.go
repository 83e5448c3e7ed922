package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"eventcrm_backend/platform/config"
	"eventcrm_backend/platform/logger"
)

// Periodic registers the recurring website lead sync on the queue. Running it
// alongside the worker keeps leads flowing without operator action.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	interval := cfg.GetWebsiteSyncInterval()
	if interval < time.Minute {
		interval = time.Minute
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	scheduler := asynq.NewScheduler(opt, nil)

	task, err := NewWebsiteLeadSyncTask(WebsiteLeadSyncPayload{})
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(fmt.Sprintf("@every %s", interval), task, asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register periodic sync: %w", err)
	}

	return &Periodic{scheduler: scheduler, log: log}, nil
}

func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		p.scheduler.Shutdown()
	}()

	if err := p.scheduler.Run(); err != nil {
		p.log.Error("periodic scheduler stopped", "error", err)
	}
}
