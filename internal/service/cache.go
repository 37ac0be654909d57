package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var errCacheDisabled = errors.New("redis not available")

// jsonCache stores JSON values in Redis. A nil client disables caching;
// every failure is logged and treated as a miss.
type jsonCache struct {
	rdb *redis.Client
}

func (c jsonCache) get(ctx context.Context, key string, out any) bool {
	if c.rdb == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c jsonCache) set(ctx context.Context, key string, v any, ttl time.Duration) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

func (c jsonCache) del(ctx context.Context, keys ...string) error {
	if c.rdb == nil {
		return errCacheDisabled
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}

// counter reads an integer key; a missing key is 0. ok is false when the
// value cannot be trusted, including when caching is disabled.
func (c jsonCache) counter(ctx context.Context, key string) (n int64, ok bool) {
	if c.rdb == nil {
		return 0, false
	}
	n, err := c.rdb.Get(ctx, key).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		slog.Warn("cache counter read failed", "key", key, "error", err)
		return 0, false
	}
	return n, true
}

func (c jsonCache) incr(ctx context.Context, key string) error {
	if c.rdb == nil {
		return errCacheDisabled
	}
	if err := c.rdb.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("increment %s: %w", key, err)
	}
	return nil
}
