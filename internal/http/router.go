package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/arogyamitra/healthchat/internal/dataset"
	"github.com/arogyamitra/healthchat/internal/http/handlers"
	"github.com/arogyamitra/healthchat/internal/http/middlewares"
	"github.com/arogyamitra/healthchat/internal/observability"
	"github.com/arogyamitra/healthchat/internal/translate"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Deps carries everything the router wires into handlers. Tests inject
// memory repositories and stub AI clients here.
type Deps struct {
	Env string
	Log *slog.Logger

	Users    handlers.UserStore
	Chats    handlers.ChatStore
	Contacts handlers.ContactStore
	Jobs     handlers.JobEnqueuer

	Tokens interface {
		handlers.TokenIssuer
		middlewares.TokenVerifier
	}

	Generator   handlers.ResponseGenerator
	Translator  translate.Translator
	MLGenerator handlers.Generator
	Dataset     *dataset.Dataset

	PingDB func(ctx context.Context) error

	CORSOrigins []string

	Prom     *observability.Prom
	Registry *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" && d.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("healthchat-api"))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// probes and metrics
	health := handlers.NewHealthHandler(d.PingDB)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens, d.Log)
	chatHandler := handlers.NewChatHandler(d.Chats, d.Generator, d.Translator, d.Prom, d.Log)
	contactHandler := handlers.NewContactHandler(d.Contacts, d.Log)
	mlHandler := handlers.NewMLHandler(d.Jobs, d.MLGenerator, d.Dataset, d.Log)

	requireAuth := middlewares.RequireAuth(d.Tokens, d.Users)

	// login attempts are the brute-force surface; chat is the expensive one
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
	chatLimiter := middlewares.NewRateLimiter(30, time.Minute)

	r.POST("/auth/register", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
	r.POST("/auth/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	r.GET("/auth/me", requireAuth, authHandler.Me)
	r.GET("/auth/profile", requireAuth, authHandler.GetProfile)
	r.PUT("/auth/profile", requireAuth, authHandler.UpdateProfile)

	r.POST("/chat", requireAuth, chatLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP), chatHandler.SendMessage)
	r.GET("/chat/history", requireAuth, chatHandler.History)
	r.POST("/chat/translate", requireAuth, chatLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP), chatHandler.Translate)

	r.POST("/contact/submit", contactHandler.Submit)
	r.GET("/contact/all", requireAuth, contactHandler.List)

	r.POST("/ml/train", requireAuth, mlHandler.Train)
	r.POST("/ml/generate", requireAuth, mlHandler.Generate)
	r.GET("/ml/disease/:name", requireAuth, mlHandler.Disease)
	r.POST("/ml/export", requireAuth, mlHandler.Export)

	return r
}
