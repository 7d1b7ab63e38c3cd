package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heliosquant/helios/internal/config"
)

const (
	cacheKey        = "bot:settings"
	defaultCacheTTL = 5 * time.Minute
)

// RedisCache decorates a Provider with a Redis-backed cache of the full
// settings bundle. A cache miss loads from the inner provider and writes the
// bundle back with a TTL; cache read failures fall through to the inner
// provider rather than failing the call.
type RedisCache struct {
	inner Provider
	rdb   redis.UniversalClient
	ttl   time.Duration
}

// NewRedisCache wraps inner with a cache on rdb. A non-positive ttl uses
// the default of five minutes.
func NewRedisCache(inner Provider, rdb redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{inner: inner, rdb: rdb, ttl: ttl}
}

// Invalidate drops the cached bundle so the next read hits the inner
// provider. Call after updating settings at the source.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate settings cache: %w", err)
	}
	return nil
}

func (c *RedisCache) IndicatorSettings(ctx context.Context) (config.IndicatorSettings, error) {
	bundle, err := c.bundle(ctx)
	if err != nil {
		return config.IndicatorSettings{}, err
	}
	return bundle.Indicators, nil
}

func (c *RedisCache) TrendSettings(ctx context.Context) (config.TrendSettings, error) {
	bundle, err := c.bundle(ctx)
	if err != nil {
		return config.TrendSettings{}, err
	}
	return bundle.TrendDetection, nil
}

func (c *RedisCache) TradingSettings(ctx context.Context) (config.TradingSettings, error) {
	bundle, err := c.bundle(ctx)
	if err != nil {
		return config.TradingSettings{}, err
	}
	return bundle.Trading, nil
}

func (c *RedisCache) bundle(ctx context.Context) (config.BotSettings, error) {
	raw, err := c.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		var bundle config.BotSettings
		if jsonErr := json.Unmarshal([]byte(raw), &bundle); jsonErr == nil {
			return bundle.Merged(), nil
		}
		// Corrupt cache entry: fall through and repopulate.
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take the bot down with it.
		return c.load(ctx, false)
	}
	return c.load(ctx, true)
}

func (c *RedisCache) load(ctx context.Context, populate bool) (config.BotSettings, error) {
	bundle, err := Load(ctx, c.inner)
	if err != nil {
		return config.BotSettings{}, err
	}
	if populate {
		if raw, jsonErr := json.Marshal(bundle); jsonErr == nil {
			// Best effort; a failed write just means a miss next time.
			_ = c.rdb.Set(ctx, cacheKey, raw, c.ttl).Err()
		}
	}
	return bundle, nil
}
