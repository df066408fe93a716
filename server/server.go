package server

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"estately/apperrors"
	"estately/config"
	"estately/db"
	"estately/pkg/metrics"
	"estately/server/handlers"
	"estately/server/middleware/csrf"
	"estately/server/middleware/limiter"
	"estately/server/middleware/security"
	"estately/server/routes"
	"estately/services/sessions"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	store *db.BucketStore
	rdb   *redis.Client
	smngr *sessions.SessionManager
	cfg   *config.Config
}

func NewServer(cfg *config.Config, svcs routes.Services) (*Server, error) {
	// Initialize template engine
	engine := html.New(cfg.Server.ViewsDir, ".html")

	if err := addTemplateFunctions(engine); err != nil {
		return nil, fmt.Errorf("failed to add template functions: %w", err)
	}

	errLogger, err := setupErrorLogging(cfg.Server.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to setup error logging: %w", err)
	}

	errorConfig := apperrors.HandlerConfig{
		Logger:             errLogger,
		ShowInternalErrors: os.Getenv("APP_ENV") == "development",
		OnError: func(c *fiber.Ctx, err *apperrors.AppError) {
			metrics.RecordError(string(err.Code), fmt.Sprintf("%d", err.StatusCode))
		},
	}

	app := fiber.New(fiber.Config{
		AppName:      "Estately",
		ServerHeader: "Estately",
		Immutable:    true,
		Views:        engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: apperrors.Handler(errorConfig),
	})

	go metrics.UpdateSessionCount(context.Background(), svcs.Sessions.CountActive, 30*time.Second)

	metrics.SystemInfo.WithLabelValues(
		"1.0.0",
		runtime.Version(),
		time.Now().Format(time.RFC3339),
	).Set(1)

	app.Use(metrics.HTTPMetricsMiddleware())

	app.Use(security.New(security.Config{
		Development: os.Getenv("APP_ENV") == "development",
	}))

	app.Use(favicon.New(favicon.Config{
		File: cfg.Server.StaticDir + "/favicon.ico",
		URL:  "/favicon.ico",
	}))

	app.Static("/static", cfg.Server.StaticDir, fiber.Static{
		Compress:      true,
		ByteRange:     false,
		Browse:        false,
		Index:         "",
		CacheDuration: 86400,
		MaxAge:        86400,
	})

	if err := setupLogging(app, cfg.Server.LogFile); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Redis, when configured, backs both rate-limit buckets and CSRF
	// tokens so they survive restarts and are shared across instances
	var limiterStorage limiter.Storage
	var csrfStorage csrf.Storage = csrf.NewInMemoryStorage()
	if svcs.Redis != nil {
		limiterStorage = limiter.NewRedisStorage(svcs.Redis, 10*time.Minute)
		csrfStorage = csrf.NewRedisStorage(svcs.Redis, cfg.Session.TTL)
	}

	app.Use(limiter.New(limiter.Config{
		Capacity:     cfg.RateLimit.Capacity,
		RefillRate:   cfg.RateLimit.RefillRate,
		RefillPeriod: cfg.RateLimit.RefillPeriod,
		Storage:      limiterStorage,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
		LimitReachedHandler: func(c *fiber.Ctx) error {
			return apperrors.NewRateLimitError()
		},
	}))

	app.Use(csrf.New(csrf.Config{
		Storage:           csrfStorage,
		KeyLookup:         "header:X-CSRF-Token",
		SessionCookieName: cfg.Session.CookieName,
		Expiration:        cfg.Session.TTL,
	}))

	app.Use(handlers.InjectCSRFToken(csrfStorage, cfg.Session.CookieName, cfg.Session.TTL))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	health := handlers.NewHealthCheckHandler(svcs.Redis, svcs.Store, svcs.Sessions)
	app.Get("/healthz", health.HandleLivenessCheck())
	app.Get("/health", health.HandleHealthCheck())
	app.Get("/readyz", health.HandleReadinessCheck())

	srv := &Server{
		App:   app,
		store: svcs.Store,
		rdb:   svcs.Redis,
		smngr: svcs.Sessions,
		cfg:   cfg,
	}

	// Register all routes
	routes.RegisterRoutes(app, cfg, svcs)

	return srv, nil
}

func (s *Server) Start() error {
	addr := s.cfg.ServerAddress()
	return s.App.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
