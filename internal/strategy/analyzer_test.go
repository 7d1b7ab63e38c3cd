package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/exchange"
	"github.com/heliosquant/helios/pkg/types"
)

type stubProvider struct {
	candles []types.Candle
	price   float64
	err     error
}

func (s *stubProvider) GetCandles(context.Context, string, time.Duration, int) ([]types.Candle, error) {
	return s.candles, s.err
}

func (s *stubProvider) GetCurrentPrice(context.Context, string) (float64, error) {
	return s.price, s.err
}

// TestAnalyzeSymbol tests the full read-only pipeline over stubbed data
func TestAnalyzeSymbol(t *testing.T) {
	candles := candlesFromCloses(fallingCloses(60))
	provider := &stubProvider{candles: candles, price: 82.5}

	analysis, err := AnalyzeSymbol(context.Background(), provider, "BTCUSDT", time.Hour, 60, config.BotSettings{})

	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", analysis.Symbol)
	assert.Equal(t, 82.5, analysis.CurrentPrice)
	assert.Equal(t, 60, analysis.CandleCount)
	assert.Equal(t, candles[len(candles)-1].CloseTime, analysis.AsOf)
	assert.Equal(t, "BTCUSDT", analysis.Signal.Symbol)
	assert.Equal(t, "BTCUSDT", analysis.Blended.Symbol)
	assert.NotEmpty(t, analysis.Regime.Type)
}

// TestAnalyzeSymbol_ProviderError tests that fetch failures propagate
func TestAnalyzeSymbol_ProviderError(t *testing.T) {
	provider := &stubProvider{err: exchange.ErrNoData}

	_, err := AnalyzeSymbol(context.Background(), provider, "BTCUSDT", time.Hour, 60, config.BotSettings{})

	assert.ErrorIs(t, err, exchange.ErrNoData)
}

// TestAnalyzeSymbol_EmptyHistory tests a provider that returns no candles
func TestAnalyzeSymbol_EmptyHistory(t *testing.T) {
	provider := &stubProvider{}

	_, err := AnalyzeSymbol(context.Background(), provider, "BTCUSDT", time.Hour, 60, config.BotSettings{})

	assert.ErrorIs(t, err, exchange.ErrNoData)
}
