package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("key not found")
	// ErrCorrupt marks a stored value that no longer decodes.
	ErrCorrupt = errors.New("corrupt cached value")
)

// Cache is the durable key/value tier backed by Redis.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

func New(addr, password string, db int, logger *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     4,
		MinIdleConns: 1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	logger.Info("redis connected", zap.String("addr", addr), zap.Int("db", db))

	return NewWithClient(client, logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// putJSON stores v under key. A zero ttl keeps the key until deleted.
func putJSON[T any](ctx context.Context, c *Cache, key string, v T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Error("redis write failed",
			zap.String("key", key),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

// loadJSON reads key into a T. Missing keys yield ErrNotFound and values
// that fail to decode yield ErrCorrupt.
func loadJSON[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var out T

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return out, ErrNotFound
	case err != nil:
		c.logger.Error("redis read failed", zap.String("key", key), zap.Error(err))
		return out, fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		c.logger.Warn("discarding undecodable value", zap.String("key", key), zap.Error(err))
		return out, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}

	return out, nil
}

func (c *Cache) remove(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("redis delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// incrWindow bumps a counter whose window restarts ttl after its last
// increment.
func (c *Cache) incrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		c.logger.Error("redis counter increment failed", zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("increment %s: %w", key, err)
	}

	return incr.Val(), nil
}

func (c *Cache) counter(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, key).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		c.logger.Error("redis counter read failed", zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("read counter %s: %w", key, err)
	}
	return n, nil
}
