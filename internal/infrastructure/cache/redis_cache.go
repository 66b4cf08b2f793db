package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
)

const defaultPrefix = "rdtrack"

// RedisCache stores backend listings in Redis. Namespaces are invalidated
// by bumping a generation counter that is part of every key, so stale
// entries are never read again and expire through their TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisCache creates a cache over an existing client
func NewRedisCache(client *redis.Client, prefix string, logger *zap.Logger) *RedisCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

// Get decodes the cached value into dest, reporting whether it was found.
// Undecodable entries are dropped and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// Set stores value as JSON. A zero ttl disables caching.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps the namespace generation
func (c *RedisCache) Invalidate(ctx context.Context, namespace string) error {
	gen, err := c.client.Incr(ctx, c.generationKey(namespace)).Result()
	if err != nil {
		return fmt.Errorf("cache invalidate %s: %w", namespace, err)
	}
	c.logger.Debug("Cache namespace invalidated", zap.String("namespace", namespace), zap.Int64("generation", gen))
	return nil
}

// Key builds the key of an entry under the current namespace generation.
// Parts are escaped so free text cannot shift the separators.
func (c *RedisCache) Key(ctx context.Context, namespace string, parts ...string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey(namespace)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("cache generation %s: %w", namespace, err)
	}
	return joinKey([]string{c.prefix, namespace, strconv.FormatInt(gen, 10)}, parts), nil
}

// Ping checks the connection, for health reporting
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func joinKey(fixed, parts []string) string {
	segments := make([]string, 0, len(fixed)+len(parts))
	segments = append(segments, fixed...)
	for _, p := range parts {
		segments = append(segments, url.QueryEscape(p))
	}
	return strings.Join(segments, ":")
}

func (c *RedisCache) generationKey(namespace string) string {
	return c.prefix + ":gen:" + namespace
}

var _ port.Cache = (*RedisCache)(nil)
