package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avkuzmin/tradetape/internal/platform/insight"
	"github.com/avkuzmin/tradetape/pkg/logger"
)

// Cache is a Redis-backed string cache used for generated insights.
// Keys carry the history digest, so an unchanged trade history hits the
// cache instead of the generation API.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewCache creates a new Redis cache
func NewCache(client *redis.Client, log *logger.Logger) *Cache {
	return &Cache{
		client: client,
		logger: log.WithField("component", "cache"),
	}
}

var _ insight.Cache = (*Cache)(nil)

// Get retrieves a cached value. The second return reports whether the key
// was present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "key", key)
		return "", false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to get cached value: %w", err)
	}

	c.logger.Debug("cache hit", "key", key)
	return val, true, nil
}

// Set stores a value with the given TTL
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "key", key, "error", err)
		return fmt.Errorf("failed to set cached value: %w", err)
	}
	return nil
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Ping checks Redis connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
