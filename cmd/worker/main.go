package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/bozor/internal/config"
	"github.com/example/bozor/internal/database"
	"github.com/example/bozor/internal/logger"
	"github.com/example/bozor/internal/notify"
)

// Consumes the redis notification queue when the API runs without
// its inline worker.
func main() {
	cfg := config.Load()

	zl, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "bozor-worker",
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

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

	worker := notify.NewWorker(rdb, notify.DefaultQueueKey, sender, zl)
	if err := worker.Run(ctx); err != nil {
		zl.Fatal("worker stopped", zap.Error(err))
	}
	zl.Info("worker stopped")
}
