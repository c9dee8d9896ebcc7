package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/arogyamitra/healthchat/internal/domain/job"
)

type fakeJobsRepo struct {
	claimFn      func(ctx context.Context, workerID string) (job.Job, error)
	doneIDs      []string
	failedIDs    []string
	rescheduled  []string
	rescheduleAt time.Time
}

func (f *fakeJobsRepo) ClaimNext(ctx context.Context, workerID string) (job.Job, error) {
	if f.claimFn != nil {
		return f.claimFn(ctx, workerID)
	}
	return job.Job{}, job.ErrJobNotFound
}

func (f *fakeJobsRepo) MarkDone(ctx context.Context, id string) error {
	f.doneIDs = append(f.doneIDs, id)
	return nil
}

func (f *fakeJobsRepo) MarkFailed(ctx context.Context, id string, errMsg string) error {
	f.failedIDs = append(f.failedIDs, id)
	return nil
}

func (f *fakeJobsRepo) Reschedule(ctx context.Context, id string, runAt time.Time, errMsg string) error {
	f.rescheduled = append(f.rescheduled, id)
	f.rescheduleAt = runAt
	return nil
}

func testWorker(repo JobsRepository, executors map[string]ExecFunc) *Worker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{WorkerID: "test-worker", PollInterval: time.Millisecond}, repo, executors, log, nil)
}

func TestProcessOne_NothingToDo(t *testing.T) {
	repo := &fakeJobsRepo{}
	w := testWorker(repo, nil)

	processed, err := w.ProcessOne(context.Background())

	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if processed {
		t.Fatal("claimed a job from an empty queue")
	}
}

func TestProcessOne_Success(t *testing.T) {
	j := job.New(job.CreateRequest{Type: "train_model", Payload: []byte(`{}`)})
	j.Attempts = 1

	repo := &fakeJobsRepo{
		claimFn: func(ctx context.Context, workerID string) (job.Job, error) {
			return j, nil
		},
	}

	ran := false

	w := testWorker(repo, map[string]ExecFunc{
		"train_model": func(ctx context.Context, got job.Job) error {
			ran = true
			if got.ID != j.ID {
				t.Errorf("executor got wrong job: %s", got.ID)
			}
			return nil
		},
	})

	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("processed=%v err=%v", processed, err)
	}

	if !ran {
		t.Fatal("executor never ran")
	}

	if len(repo.doneIDs) != 1 || repo.doneIDs[0] != j.ID {
		t.Errorf("job not marked done: %v", repo.doneIDs)
	}
}

func TestProcessOne_RetriesThenDeadLetters(t *testing.T) {
	execErr := errors.New("python exited 1")

	t.Run("attempts remaining reschedules", func(t *testing.T) {
		j := job.New(job.CreateRequest{Type: "train_model", Payload: []byte(`{}`), MaxAttempts: 3})
		j.Attempts = 1

		repo := &fakeJobsRepo{
			claimFn: func(ctx context.Context, workerID string) (job.Job, error) { return j, nil },
		}

		w := testWorker(repo, map[string]ExecFunc{
			"train_model": func(ctx context.Context, got job.Job) error { return execErr },
		})

		if _, err := w.ProcessOne(context.Background()); err != nil {
			t.Fatalf("process: %v", err)
		}

		if len(repo.rescheduled) != 1 {
			t.Fatalf("expected reschedule, got %v", repo.rescheduled)
		}

		if !repo.rescheduleAt.After(time.Now().UTC()) {
			t.Error("reschedule time must be in the future")
		}
	})

	t.Run("exhausted attempts marks failed", func(t *testing.T) {
		j := job.New(job.CreateRequest{Type: "train_model", Payload: []byte(`{}`), MaxAttempts: 3})
		j.Attempts = 3

		repo := &fakeJobsRepo{
			claimFn: func(ctx context.Context, workerID string) (job.Job, error) { return j, nil },
		}

		w := testWorker(repo, map[string]ExecFunc{
			"train_model": func(ctx context.Context, got job.Job) error { return execErr },
		})

		if _, err := w.ProcessOne(context.Background()); err != nil {
			t.Fatalf("process: %v", err)
		}

		if len(repo.failedIDs) != 1 {
			t.Fatalf("expected dead-letter, got %v", repo.failedIDs)
		}

		if len(repo.rescheduled) != 0 {
			t.Errorf("must not reschedule an exhausted job: %v", repo.rescheduled)
		}
	})
}

func TestProcessOne_UnknownJobType(t *testing.T) {
	j := job.New(job.CreateRequest{Type: "mystery", Payload: []byte(`{}`), MaxAttempts: 1})
	j.Attempts = 1

	repo := &fakeJobsRepo{
		claimFn: func(ctx context.Context, workerID string) (job.Job, error) { return j, nil },
	}

	w := testWorker(repo, map[string]ExecFunc{})

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(repo.failedIDs) != 1 {
		t.Fatalf("unknown type must dead-letter, got %v", repo.failedIDs)
	}
}

func TestExponentialBackoff(t *testing.T) {
	prev := time.Duration(0)

	for attempt := 0; attempt < 6; attempt++ {
		d := ExponentialBackoff(attempt)

		if d < prev {
			t.Errorf("backoff shrank at attempt %d: %v < %v", attempt, d, prev)
		}
		prev = d
	}

	if d := ExponentialBackoff(30); d > 5*time.Minute+time.Second {
		t.Errorf("backoff exceeds cap: %v", d)
	}
}
