package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/bozor/internal/config"
	"github.com/example/bozor/internal/database"
	"github.com/example/bozor/internal/handlers"
	"github.com/example/bozor/internal/logger"
	"github.com/example/bozor/internal/metrics"
	"github.com/example/bozor/internal/notify"
	"github.com/example/bozor/internal/routes"
)

func main() {
	cfg := config.Load()

	zl, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "bozor-api",
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	gormLevel := gormlogger.Info
	if cfg.IsProduction() {
		gormLevel = gormlogger.Warn
	}

	db, err := database.Connect(cfg.DatabaseURL, gormLevel)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		zl.Fatal("connect redis", zap.Error(err))
	}
	defer rdb.Close()

	sender, err := notify.NewSender(cfg, zl)
	if err != nil {
		zl.Fatal("build notification sender", zap.Error(err))
	}
	notifier, runner, err := notify.NewDispatcher(cfg, rdb, sender, zl)
	if err != nil {
		zl.Fatal("build notification queue", zap.Error(err))
	}
	if runner != nil {
		go func() {
			if err := runner.Run(ctx); err != nil {
				zl.Error("notification worker stopped", zap.Error(err))
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Bozor Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(logger.Middleware(zl))
	app.Use(metrics.Middleware())

	routes.Register(app, db, rdb, notifier, cfg, zl)

	go func() {
		<-ctx.Done()
		zl.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("shutdown", zap.Error(err))
		}
	}()

	zl.Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zl.Fatal("fiber.Listen error", zap.Error(err))
	}
}
