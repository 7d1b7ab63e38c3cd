package settings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliosquant/helios/internal/config"
)

func customBundle() config.BotSettings {
	s := config.BotSettings{}
	s.Indicators.RSI.Period = 21
	s.Trading.StopLossPercent = 3.0
	return s.Merged()
}

// TestLoad_AssemblesBundle tests section assembly through a provider
func TestLoad_AssemblesBundle(t *testing.T) {
	store := NewMemoryStore(customBundle())

	bundle, err := Load(context.Background(), store)

	require.NoError(t, err)
	assert.Equal(t, 21, bundle.Indicators.RSI.Period)
	assert.Equal(t, 3.0, bundle.Trading.StopLossPercent)
	assert.Equal(t, config.DefaultTakeProfitPercent, bundle.Trading.TakeProfitPercent)
}

// TestMemoryStore_Update tests atomic bundle replacement
func TestMemoryStore_Update(t *testing.T) {
	store := NewMemoryStore(config.DefaultBotSettings())

	updated := config.BotSettings{}
	updated.Trading.StopLossPercent = 4.5
	store.Update(updated)

	trading, err := store.TradingSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4.5, trading.StopLossPercent)
}

// TestRedisCache_MissPopulates tests that a cache miss loads from the inner
// provider and writes the bundle back with the TTL
func TestRedisCache_MissPopulates(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := NewMemoryStore(customBundle())
	cache := NewRedisCache(inner, rdb, time.Minute)

	expected, err := json.Marshal(customBundle())
	require.NoError(t, err)
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSet(cacheKey, expected, time.Minute).SetVal("OK")

	indicators, err := cache.IndicatorSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 21, indicators.RSI.Period)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRedisCache_HitSkipsInner tests that a cached bundle is served as-is
func TestRedisCache_HitSkipsInner(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	// The inner store disagrees with the cache; a hit must win.
	inner := NewMemoryStore(config.DefaultBotSettings())
	cache := NewRedisCache(inner, rdb, time.Minute)

	cached, err := json.Marshal(customBundle())
	require.NoError(t, err)
	mock.ExpectGet(cacheKey).SetVal(string(cached))

	trading, err := cache.TradingSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3.0, trading.StopLossPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRedisCache_RedisDownFallsThrough tests that a Redis outage degrades
// to the inner provider instead of failing the call
func TestRedisCache_RedisDownFallsThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := NewMemoryStore(customBundle())
	cache := NewRedisCache(inner, rdb, time.Minute)

	mock.ExpectGet(cacheKey).SetErr(assert.AnError)

	trend, err := cache.TrendSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, config.DefaultADXPeriod, trend.ADXPeriod)
}

// TestRedisCache_Invalidate tests explicit cache invalidation
func TestRedisCache_Invalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewRedisCache(NewMemoryStore(config.DefaultBotSettings()), rdb, 0)

	mock.ExpectDel(cacheKey).SetVal(1)

	assert.NoError(t, cache.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
