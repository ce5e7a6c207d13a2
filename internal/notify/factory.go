package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/bozor/internal/config"
)

const memoryQueueSize = 256

// NewSender builds the Sender named by cfg.NotifySender.
func NewSender(cfg *config.Config, log *zap.Logger) (Sender, error) {
	switch cfg.NotifySender {
	case "", "log":
		return NewLogSender(log), nil
	case "twilio":
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber), nil
	case "telegram":
		return NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID), nil
	default:
		return nil, fmt.Errorf("unknown notification sender %q", cfg.NotifySender)
	}
}

// Runner is a background consumer started alongside the API.
type Runner interface {
	Run(ctx context.Context) error
}

// NewDispatcher builds the Dispatcher named by cfg.NotifyQueue. The returned Runner
// consumes its tasks; it is nil for the redis queue when no inline worker is wanted.
func NewDispatcher(cfg *config.Config, client redis.UniversalClient, sender Sender, log *zap.Logger) (Dispatcher, Runner, error) {
	switch cfg.NotifyQueue {
	case "", "redis":
		queue := NewRedisQueue(client, DefaultQueueKey, log)
		if !cfg.NotifyInlineWorker {
			return queue, nil, nil
		}
		return queue, NewWorker(client, DefaultQueueKey, sender, log), nil
	case "memory":
		queue := NewMemoryQueue(sender, memoryQueueSize, log)
		return queue, queue, nil
	default:
		return nil, nil, fmt.Errorf("unknown notification queue %q", cfg.NotifyQueue)
	}
}
