package worker

import (
	"context"
	"errors"
	"time"

	"github.com/arogyamitra/healthchat/internal/domain/job"
)

// ProcessOne claims and runs a single job. Returns false when nothing was
// runnable.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 2*time.Second)

	j, err := w.repo.ClaimNext(claimCtx, w.cfg.WorkerID)
	cancel()

	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return false, nil
		}

		return false, err
	}

	w.log.Info("claimed job", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts)

	start := time.Now()

	err = w.execute(ctx, j)

	if err != nil {
		w.observeJob(j.Type, "failed", time.Since(start))
		w.handleFailure(ctx, j, err)
		return true, nil
	}

	err = w.repo.MarkDone(ctx, j.ID)

	if err != nil {
		_ = w.repo.MarkFailed(ctx, j.ID, "mark_done_failed: "+err.Error())
		return true, err
	}

	w.observeJob(j.Type, "done", time.Since(start))
	w.log.Info("job done", "job_id", j.ID, "type", j.Type, "duration_ms", time.Since(start).Milliseconds())

	return true, nil
}

func (w *Worker) handleFailure(ctx context.Context, j job.Job, execErr error) {
	if j.Attempts >= j.MaxAttempts {
		w.log.Error("job exhausted retries", "job_id", j.ID, "type", j.Type, "err", execErr)

		if err := w.repo.MarkFailed(ctx, j.ID, execErr.Error()); err != nil {
			w.log.Error("mark failed", "job_id", j.ID, "err", err)
		}
		return
	}

	delay := ExponentialBackoff(j.Attempts)
	runAt := time.Now().UTC().Add(delay)

	w.log.Warn("job failed, rescheduling", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts, "retry_in", delay.String(), "err", execErr)

	if err := w.repo.Reschedule(ctx, j.ID, runAt, execErr.Error()); err != nil {
		w.log.Error("reschedule", "job_id", j.ID, "err", err)
	}

	w.observeJob(j.Type, "retry", 0)
}

func (w *Worker) observeJob(jobType, result string, d time.Duration) {
	if w.prom == nil {
		return
	}

	w.prom.JobResults.WithLabelValues(jobType, result).Inc()

	if result != "retry" {
		w.prom.JobDuration.WithLabelValues(jobType, result).Observe(d.Seconds())
	}
}
