package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arogyamitra/healthchat/internal/auth"
	"github.com/arogyamitra/healthchat/internal/cache"
	"github.com/arogyamitra/healthchat/internal/config"
	"github.com/arogyamitra/healthchat/internal/dataset"
	"github.com/arogyamitra/healthchat/internal/db"
	"github.com/arogyamitra/healthchat/internal/genai"
	httpapi "github.com/arogyamitra/healthchat/internal/http"
	"github.com/arogyamitra/healthchat/internal/ml"
	"github.com/arogyamitra/healthchat/internal/observability"
	"github.com/arogyamitra/healthchat/internal/repo/postgres"
	"github.com/arogyamitra/healthchat/internal/translate"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTELEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, "healthchat-api", cfg.OTELEndpoint)

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

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Error("ensure schema", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(ctx, pool, cfg); err != nil {
		log.Error("seed admin user", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	usersRepo := postgres.NewUsersRepo(pool, prom)
	chatsRepo := postgres.NewChatsRepo(pool, prom)
	contactsRepo := postgres.NewContactsRepo(pool, prom)
	jobsRepo := postgres.NewJobsRepo(pool, prom)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())

	generator := genai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)

	var translator translate.Translator

	if cfg.TranslateAPIKey != "" {
		var store cache.Cache = cache.NewMemory(24 * time.Hour)

		if cfg.RedisAddr != "" {
			store = cache.NewRedis(cache.RedisConfig{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			}, 24*time.Hour)
		}

		translator = translate.NewCached(translate.NewClient(cfg.TranslateAPIKey, cfg.TranslateBaseURL), store)
	}

	var data *dataset.Dataset

	if cfg.DatasetPath != "" {
		data, err = dataset.Load(cfg.DatasetPath)

		if err != nil {
			// the API can run without the reference dataset; only the
			// disease lookup goes dark
			log.Warn("load dataset", "err", err, "path", cfg.DatasetPath)
			data = nil
		}
	}

	runner := ml.NewRunner(cfg.PythonBin, cfg.MLScriptDir, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Env:         cfg.Env,
		Log:         log,
		Users:       usersRepo,
		Chats:       chatsRepo,
		Contacts:    contactsRepo,
		Jobs:        jobsRepo,
		Tokens:      tokens,
		Generator:   generator,
		Translator:  translator,
		MLGenerator: runner,
		Dataset:     data,
		PingDB:      pool.Ping,
		CORSOrigins: cfg.CORSOrigins,
		Prom:        prom,
		Registry:    registry,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")

		shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown", "err", err)
		}

	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}
}
