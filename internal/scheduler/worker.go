package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"eventcrm_backend/internal/leads/transport"
	"eventcrm_backend/platform/config"
	"eventcrm_backend/platform/logger"
)

// schedulerActor is recorded as the importer on leads created by scheduled runs.
const schedulerActor = "scheduler"

// ImportRunner triggers one website lead import run.
type ImportRunner interface {
	Import(ctx context.Context, req transport.ImportRequest, importedBy string) (transport.ImportResponse, error)
}

// Worker consumes sync tasks and runs imports through the leads service.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner ImportRunner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, runner ImportRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		runner: runner,
		log:    log,
	}

	mux.HandleFunc(TaskWebsiteLeadSync, w.handleWebsiteLeadSync)

	return w, nil
}

func (w *Worker) handleWebsiteLeadSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWebsiteLeadSyncPayload(task)
	if err != nil {
		return err
	}

	req := transport.ImportRequest{ImportAll: true, MinLeadID: payload.MinLeadID}
	result, err := w.runner.Import(ctx, req, schedulerActor)
	if err != nil {
		w.log.Error("scheduled website lead sync failed", "error", err)
		return err
	}

	w.log.Info("scheduled website lead sync finished",
		"imported", result.Summary.TotalImported,
		"processed", result.Summary.TotalProcessed,
		"failed", result.Summary.FailedImports)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
