package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arogyamitra/healthchat/internal/domain/job"
	"github.com/arogyamitra/healthchat/internal/observability"
)

type JobsRepository interface {
	ClaimNext(ctx context.Context, workerID string) (job.Job, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
	Reschedule(ctx context.Context, id string, runAt time.Time, errMsg string) error
}

// ExecFunc runs one claimed job to completion or error.
type ExecFunc func(ctx context.Context, j job.Job) error

type Config struct {
	PollInterval  time.Duration
	WorkerID      string
	ShutdownGrace time.Duration
}

type Worker struct {
	cfg       Config
	repo      JobsRepository
	executors map[string]ExecFunc
	log       *slog.Logger
	prom      *observability.Prom
}

func New(cfg Config, repo JobsRepository, executors map[string]ExecFunc, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}

	return &Worker{
		cfg:       cfg,
		repo:      repo,
		executors: executors,
		log:       log,
		prom:      prom,
	}
}

// Run polls for work until the context is cancelled. Jobs run one at a
// time: training holds the python model files exclusively anyway.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.log.Info("worker started", "worker_id", w.cfg.WorkerID, "poll_interval", w.cfg.PollInterval.String())

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil

		case <-ticker.C:
			// drain everything runnable before sleeping again
			for {
				processed, err := w.ProcessOne(ctx)

				if err != nil {
					w.log.Error("process job", "err", err)
					break
				}

				if !processed {
					break
				}
			}
		}
	}
}

func (w *Worker) execute(ctx context.Context, j job.Job) error {
	exec, ok := w.executors[j.Type]

	if !ok {
		return fmt.Errorf("no executor registered for job type %q", j.Type)
	}

	return exec(ctx, j)
}
