package otp

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the ephemeral key-value cache holding live codes.
type Store interface {
	// SetNX stores value under key with ttl unless the key is already live.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Get returns the live value, or ok=false when the key is missing or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// RedisStore implements Store on a redis client.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
