package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/bozor/internal/metrics"
)

// MemoryQueue hands tasks to an in-process goroutine through a buffered channel.
// Tasks are dropped when the buffer is full or the process exits.
type MemoryQueue struct {
	tasks  chan Task
	sender Sender
	log    *zap.Logger
}

// NewMemoryQueue constructs a MemoryQueue holding up to size pending tasks.
func NewMemoryQueue(sender Sender, size int, log *zap.Logger) *MemoryQueue {
	return &MemoryQueue{
		tasks:  make(chan Task, size),
		sender: sender,
		log:    log,
	}
}

func (q *MemoryQueue) Dispatch(_ context.Context, phone, message string) {
	select {
	case q.tasks <- Task{Phone: phone, Message: message, EnqueuedAt: time.Now()}:
		metrics.Notifications.WithLabelValues("enqueue", "ok").Inc()
	default:
		metrics.Notifications.WithLabelValues("enqueue", "dropped").Inc()
		q.log.Warn("notification queue full, dropping message", zap.String("phone", phone))
	}
}

// Run delivers tasks until ctx is cancelled.
func (q *MemoryQueue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case task := <-q.tasks:
			deliver(ctx, q.sender, task, q.log)
		}
	}
}
