package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// Counter implements secondary.CounterStore on a single Redis string key.
// Increments use INCRBY, which Redis applies atomically.
type Counter struct {
	client redis.UniversalClient
	key    string
	logger *zap.Logger
}

// NewCounter creates a Redis-backed counter stored under key.
func NewCounter(client redis.UniversalClient, key string, logger *zap.Logger) secondary.CounterStore {
	return &Counter{
		client: client,
		key:    key,
		logger: logger.Named("redis-counter"),
	}
}

// Init writes 0 under the key unless a value is already present.
func (c *Counter) Init(ctx context.Context) error {
	created, err := c.client.SetNX(ctx, c.key, 0, 0).Result()
	if err != nil {
		return fmt.Errorf("initializing counter %q: %w", c.key, err)
	}
	if created {
		c.logger.Info("counter created", zap.String("key", c.key))
	}
	return nil
}

// Get returns the stored value, or 0 when the key is missing.
func (c *Counter) Get(ctx context.Context) (int64, error) {
	value, err := c.client.Get(ctx, c.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading counter %q: %w", c.key, err)
	}
	return value, nil
}

// Set overwrites the stored value with SET ... GET and returns the old value.
func (c *Counter) Set(ctx context.Context, value int64) (int64, error) {
	old, err := c.client.SetArgs(ctx, c.key, value, redis.SetArgs{Get: true}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("writing counter %q: %w", c.key, err)
	}
	previous, err := strconv.ParseInt(old, 10, 64)
	if err != nil {
		c.logger.Warn("replaced a non-integer counter value", zap.String("previous", old))
		return 0, nil
	}
	return previous, nil
}

// Increment adds delta with INCRBY and returns the resulting value.
func (c *Counter) Increment(ctx context.Context, delta int64) (int64, error) {
	value, err := c.client.IncrBy(ctx, c.key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing counter %q: %w", c.key, err)
	}
	return value, nil
}

// Close is a no-op; the shared client is closed by its owner.
func (c *Counter) Close() error {
	return nil
}
