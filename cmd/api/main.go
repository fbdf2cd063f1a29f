// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/stillmind/internal/admin"
	"github.com/carterperez-dev/stillmind/internal/auth"
	"github.com/carterperez-dev/stillmind/internal/billing"
	"github.com/carterperez-dev/stillmind/internal/catalog"
	"github.com/carterperez-dev/stillmind/internal/company"
	"github.com/carterperez-dev/stillmind/internal/config"
	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
	"github.com/carterperez-dev/stillmind/internal/health"
	"github.com/carterperez-dev/stillmind/internal/mail"
	"github.com/carterperez-dev/stillmind/internal/middleware"
	"github.com/carterperez-dev/stillmind/internal/notification"
	"github.com/carterperez-dev/stillmind/internal/server"
	"github.com/carterperez-dev/stillmind/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	adminRepo := admin.NewRepository(db.DB)
	userRepo := user.NewRepository(db.DB)
	companyRepo := company.NewRepository(db.DB)

	dir := directory.New(adminRepo, userRepo, companyRepo)

	mailer := mail.NewSendGridSender(cfg.Mail, logger)
	texter := mail.NewTwilioSender(cfg.SMS, logger)

	paymentProvider := billing.NewStripeProvider(cfg.Billing)

	notificationRepo := notification.NewRepository(db.DB)
	notificationSvc := notification.NewService(notificationRepo, userRepo, logger)
	notificationHandler := notification.NewHandler(notificationSvc)

	billingSvc := billing.NewService(
		paymentProvider, companyRepo, notificationSvc, cfg.Billing, logger)
	billingHandler := billing.NewHandler(billingSvc, logger)

	companySvc := company.NewService(
		companyRepo, dir, mailer, paymentProvider, userRepo, logger)
	companyHandler := company.NewHandler(companySvc)

	userSvc := user.NewService(userRepo, dir, companyRepo, mailer, logger)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(auth.ServiceConfig{
		Repo:      authRepo,
		Directory: dir,
		Tokens:    jwtManager,
		Mailer:    mailer,
		Texter:    texter,
		Auth:      cfg.Auth,
		SMS:       cfg.SMS,
		Logger:    logger,
	})
	authHandler := auth.NewHandler(authSvc)

	catalogRepo := catalog.NewRepository(db.DB)
	catalogSvc := catalog.NewService(catalogRepo, logger)
	catalogHandler := catalog.NewHandler(catalogSvc)

	adminSvc := admin.NewService(adminRepo, dir, userRepo, billingSvc, logger)
	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Service:    adminSvc,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	healthHandler := health.NewHandler(db, redis)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	adminOnly := middleware.RequireAdmin
	companyOnly := middleware.RequireCompany

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)

		userHandler.RegisterPublicRoutes(r)
		companyHandler.RegisterPublicRoutes(r)
		billingHandler.RegisterWebhookRoutes(r)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterCompanyRoutes(r, authenticator, companyOnly)

		companyHandler.RegisterRoutes(r, authenticator)
		companyHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		billingHandler.RegisterRoutes(r, authenticator)
		billingHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		notificationHandler.RegisterRoutes(r, authenticator)
		notificationHandler.RegisterCompanyRoutes(r, authenticator, companyOnly)

		catalogHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
