package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rise-platform/config"
	"rise-platform/handlers"
	"rise-platform/logging"
	"rise-platform/middleware"
	"rise-platform/services"
	"rise-platform/store"
	"rise-platform/utils"
	"rise-platform/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const uploadBodyLimit = 50 * 1024 * 1024

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, dotenv, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if !dotenv {
		logger.Info("no .env file found, reading environment variables directly")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := store.ConfigurePool(db, store.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}); err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := store.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("database migrated")
	}

	var objects services.ObjectStore
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Client(ctx, cfg.R2)
		if err != nil {
			return err
		}
		objects = r2
		logger.Info("object storage enabled", zap.String("bucket", cfg.R2.Bucket))
	} else {
		logger.Warn("object storage disabled, artifact uploads and snapshots are unavailable")
	}

	analytics := services.NewAnalyticsService(store.NewAnalyticsStore(db), logger)
	creators := services.NewCreatorService(store.NewCreatorStore(db), objects, logger)

	app := fiber.New(fiber.Config{
		BodyLimit:    uploadBodyLimit,
		ErrorHandler: handlers.ErrorHandler(logger),
	})
	app.Use(requestid.New())
	// the logger wraps recover so panicking requests still get a log line
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	auth := middleware.Authenticate(cfg.JWTSecret)
	handlers.SetupHealthRoutes(app, func(ctx context.Context) error { return store.Ping(ctx, db) }, logger)
	handlers.SetupAnalyticsRoutes(app, analytics, auth, logger)
	handlers.SetupCreatorRoutes(app, creators, auth, logger)

	if cfg.SnapshotEnabled {
		if objects == nil {
			logger.Warn("SNAPSHOT_ENABLED is set but object storage is not configured, snapshots are off")
		} else {
			worker := workers.NewSnapshotWorker(analytics, objects, cfg.SnapshotInterval, logger)
			if err := worker.Start(ctx); err != nil {
				return err
			}
			defer worker.Stop()
		}
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.ListenAddr())
	}()
	logger.Info("server running",
		zap.String("addr", cfg.ListenAddr()),
		zap.String("env", cfg.Environment),
		zap.Strings("cors_origins", cfg.AllowedOrigins))

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
