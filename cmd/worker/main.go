package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arogyamitra/healthchat/internal/config"
	"github.com/arogyamitra/healthchat/internal/dataset"
	"github.com/arogyamitra/healthchat/internal/db"
	"github.com/arogyamitra/healthchat/internal/jobs"
	"github.com/arogyamitra/healthchat/internal/ml"
	"github.com/arogyamitra/healthchat/internal/observability"
	"github.com/arogyamitra/healthchat/internal/queue/worker"
	"github.com/arogyamitra/healthchat/internal/repo/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTELEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, "healthchat-worker", cfg.OTELEndpoint)

		if err != nil {
			log.Error("init tracer", "err", err)
			os.Exit(1)
		}

		defer func() {
			shutdownCtx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("connect to database", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	prom := observability.NewProm(prometheus.NewRegistry())

	jobsRepo := postgres.NewJobsRepo(pool, prom)
	chatsRepo := postgres.NewChatsRepo(pool, prom)

	runner := ml.NewRunner(cfg.PythonBin, cfg.MLScriptDir, log)

	data, err := dataset.Load(cfg.DatasetPath)

	if err != nil {
		// training cannot run without the dataset, exports still can
		log.Warn("load dataset", "err", err, "path", cfg.DatasetPath)
	}

	executors := map[string]worker.ExecFunc{
		string(jobs.JobExportChatsCSV): worker.ExportChatsExecutor(chatsRepo, cfg.ExportDir, log),
	}

	if data != nil {
		executors[string(jobs.JobTrainModel)] = worker.TrainModelExecutor(runner, data, cfg.MLScriptDir, log)
	}

	w := worker.New(worker.Config{
		PollInterval:  2 * time.Second,
		WorkerID:      "worker-" + uuid.NewString()[:8],
		ShutdownGrace: 30 * time.Second,
	}, jobsRepo, executors, log, prom)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped", "err", err)
		os.Exit(1)
	}

	log.Info("worker exited cleanly")
}
