package ml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
)

var ErrTrainingInProgress = errors.New("model is currently being trained")

// Runner shells out to the python scripts that own the actual model.
// One training run at a time per process; the guard also refuses generate
// during an in-process training run. It does not coordinate across
// processes, so in the api/worker split the model files can still be read
// mid-training.
type Runner struct {
	python    string
	scriptDir string
	log       *slog.Logger

	training atomic.Bool
}

func NewRunner(python, scriptDir string, log *slog.Logger) *Runner {
	return &Runner{
		python:    python,
		scriptDir: scriptDir,
		log:       log,
	}
}

// Train runs the training script to completion and returns its stdout.
func (r *Runner) Train(ctx context.Context) (string, error) {
	if !r.training.CompareAndSwap(false, true) {
		return "", ErrTrainingInProgress
	}

	defer r.training.Store(false)

	out, err := r.run(ctx, filepath.Join(r.scriptDir, "train_model.py"))

	if err != nil {
		return "", fmt.Errorf("training failed: %w", err)
	}

	return out, nil
}

// Generate runs the response script with the user input as its argument.
func (r *Runner) Generate(ctx context.Context, input string) (string, error) {
	if r.training.Load() {
		return "", ErrTrainingInProgress
	}

	out, err := r.run(ctx, filepath.Join(r.scriptDir, "generate_response.py"), input)

	if err != nil {
		return "", fmt.Errorf("generate failed: %w", err)
	}

	return out, nil
}

func (r *Runner) run(ctx context.Context, script string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.python, append([]string{script}, args...)...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if stderr.Len() > 0 {
		r.log.Warn("python stderr", "script", filepath.Base(script), "output", stderr.String())
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(script), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
