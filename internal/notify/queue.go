package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/bozor/internal/metrics"
)

// DefaultQueueKey is the redis list shared by the API and the worker.
const DefaultQueueKey = "notify:sms"

const enqueueTimeout = 2 * time.Second

// RedisQueue pushes tasks onto a redis list.
type RedisQueue struct {
	client redis.UniversalClient
	key    string
	log    *zap.Logger
}

// NewRedisQueue constructs a RedisQueue on key.
func NewRedisQueue(client redis.UniversalClient, key string, log *zap.Logger) *RedisQueue {
	return &RedisQueue{client: client, key: key, log: log}
}

// Dispatch enqueues the message. Errors are logged and swallowed.
func (q *RedisQueue) Dispatch(ctx context.Context, phone, message string) {
	payload, err := json.Marshal(Task{Phone: phone, Message: message, EnqueuedAt: time.Now()})
	if err != nil {
		metrics.Notifications.WithLabelValues("enqueue", "error").Inc()
		q.log.Error("encode notification", zap.Error(err))
		return
	}

	// The request may finish before the push does; do not inherit its cancellation.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()

	if err := q.client.LPush(pushCtx, q.key, payload).Err(); err != nil {
		metrics.Notifications.WithLabelValues("enqueue", "error").Inc()
		q.log.Warn("enqueue notification failed", zap.String("phone", phone), zap.Error(err))
		return
	}
	metrics.Notifications.WithLabelValues("enqueue", "ok").Inc()
}

// Worker pops tasks from the redis list and hands them to a Sender.
// A task is removed before delivery, so a crash mid-send loses it.
type Worker struct {
	client     redis.UniversalClient
	key        string
	sender     Sender
	log        *zap.Logger
	popTimeout time.Duration
}

// NewWorker constructs a Worker consuming key.
func NewWorker(client redis.UniversalClient, key string, sender Sender, log *zap.Logger) *Worker {
	return &Worker{
		client:     client,
		key:        key,
		sender:     sender,
		log:        log,
		popTimeout: 5 * time.Second,
	}
}

// Run consumes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("notification worker started", zap.String("queue", w.key))
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := w.client.BRPop(ctx, w.popTimeout, w.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Warn("pop notification failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPOP returns [key, value].
		var task Task
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			w.log.Error("drop malformed notification", zap.Error(err))
			continue
		}
		deliver(ctx, w.sender, task, w.log)
	}
}
