// Package notify hands SMS messages to a background worker without blocking callers.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/bozor/internal/metrics"
)

// Sender delivers a message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// Dispatcher accepts messages for asynchronous delivery. Dispatch never reports
// failure to the caller; lost messages are logged and counted.
type Dispatcher interface {
	Dispatch(ctx context.Context, phone, message string)
}

// Task is the unit of work queued for the worker.
type Task struct {
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func deliver(ctx context.Context, sender Sender, task Task, log *zap.Logger) {
	if err := sender.Send(ctx, task.Phone, task.Message); err != nil {
		metrics.Notifications.WithLabelValues("deliver", "error").Inc()
		log.Warn("notification delivery failed", zap.String("phone", task.Phone), zap.Error(err))
		return
	}
	metrics.Notifications.WithLabelValues("deliver", "ok").Inc()
	log.Debug("notification delivered", zap.String("phone", task.Phone), zap.Duration("queued", time.Since(task.EnqueuedAt)))
}
