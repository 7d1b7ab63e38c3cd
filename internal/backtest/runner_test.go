package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/engine"
	"github.com/heliosquant/helios/pkg/types"
)

// rangeBoundSettings keeps the regime classifier in SIDEWAYS so the
// mean-reversion strategy drives every run, with a short warm-up.
func rangeBoundSettings() config.BotSettings {
	s := config.BotSettings{}
	s.TrendDetection.ADXPeriod = 5
	s.TrendDetection.EMA200Period = 20
	s.TrendDetection.ADXThreshold = 150 // ADX tops out at 100
	return s.Merged()
}

// trendingSettings leaves the ADX threshold at its default so a sustained
// move classifies as a directional regime.
func trendingSettings() config.BotSettings {
	s := config.BotSettings{}
	s.TrendDetection.ADXPeriod = 5
	s.TrendDetection.EMA200Period = 20
	return s.Merged()
}

func testConfig() Config {
	return Config{Symbol: "BTCUSDT", Interval: "1h", InitialBalance: 1000}
}

func candleSeries(closes []float64) []types.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		candles[i] = types.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      c,
			High:      c * 1.005,
			Low:       c * 0.995,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

// flatThenDecline holds at 100, then compounds 1% declines. The declining
// stretch pins RSI at zero, so the sideways strategy keeps buying and the
// stop loss keeps closing.
func flatThenDecline(flat, declining int) []types.Candle {
	closes := make([]float64, 0, flat+declining)
	price := 100.0
	for i := 0; i < flat; i++ {
		closes = append(closes, price)
	}
	for i := 0; i < declining; i++ {
		price *= 0.99
		closes = append(closes, price)
	}
	return candleSeries(closes)
}

// TestRun_InsufficientHistory tests the warm-up configuration error
func TestRun_InsufficientHistory(t *testing.T) {
	candles := flatThenDecline(10, 0)

	_, err := NewRunner(nil).Run(context.Background(), candles, testConfig(), rangeBoundSettings())

	assert.ErrorIs(t, err, engine.ErrInsufficientHistory)
}

// TestRun_InvalidRiskSettings tests that bad settings fail before simulation
func TestRun_InvalidRiskSettings(t *testing.T) {
	settings := rangeBoundSettings()
	settings.Trading.StopLossPercent = 5
	settings.Trading.TakeProfitPercent = 3

	_, err := NewRunner(nil).Run(context.Background(), flatThenDecline(25, 30), testConfig(), settings)

	assert.ErrorIs(t, err, engine.ErrInvalidRiskSettings)
}

// TestRun_Cancellation tests cooperative cancellation between candles
func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Run(ctx, flatThenDecline(25, 30), testConfig(), rangeBoundSettings())

	assert.ErrorIs(t, err, context.Canceled)
}

// TestRun_StopLossCycle tests a declining market: the oversold strategy
// buys, the stop loss closes, and the first exit lands on the first candle
// at least 2% below entry
func TestRun_StopLossCycle(t *testing.T) {
	candles := flatThenDecline(25, 30)

	res, err := NewRunner(nil).Run(context.Background(), candles, testConfig(), rangeBoundSettings())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Exits.StopLoss, 1)
	require.NotEmpty(t, res.Trades)

	first := res.Trades[0]
	require.True(t, first.Closed)
	assert.Equal(t, types.ReasonStopLoss, first.ExitReason)
	// Three compounding 1% declines breach the 2% stop; two do not.
	assert.InDelta(t, first.EntryPrice*0.99*0.99*0.99, first.ExitPrice, 1e-6)
	assert.Negative(t, first.PnL)
}

// TestRun_RecordsEquityEveryCandle tests the equity curve cadence
func TestRun_RecordsEquityEveryCandle(t *testing.T) {
	candles := flatThenDecline(25, 30)
	settings := rangeBoundSettings()
	warmup := warmupLength(settings)

	res, err := NewRunner(nil).Run(context.Background(), candles, testConfig(), settings)

	require.NoError(t, err)
	assert.Len(t, res.EquityCurve, len(candles)-warmup)
	assert.Equal(t, len(candles)-warmup,
		res.Regimes.Bullish+res.Regimes.Bearish+res.Regimes.Sideways)
	assert.Equal(t, len(candles)-warmup, res.Regimes.Sideways)
}

// TestRun_MonotonicRiseNeverStopsOut tests that a rising market produces no
// stop-loss exits and no drawdown
func TestRun_MonotonicRiseNeverStopsOut(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}

	res, err := NewRunner(nil).Run(context.Background(), candleSeries(closes), testConfig(), rangeBoundSettings())

	require.NoError(t, err)
	assert.Zero(t, res.Exits.StopLoss)
	assert.Zero(t, res.MaxDrawdown)
}

// TestRun_SustainedRiseClassifiesBullish tests that a persistent uptrend is
// counted as a bullish regime on every evaluated candle
func TestRun_SustainedRiseClassifiesBullish(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	settings := trendingSettings()
	warmup := warmupLength(settings)

	res, err := NewRunner(nil).Run(context.Background(), candleSeries(closes), testConfig(), settings)

	require.NoError(t, err)
	assert.Equal(t, len(closes)-warmup, res.Regimes.Bullish)
	assert.Zero(t, res.Regimes.Bearish)
	assert.Zero(t, res.Exits.StopLoss)
}

// TestRun_ForcedExitClosesOpenPosition tests the end-of-data policy: a
// position still open after the last candle is liquidated and marked
func TestRun_ForcedExitClosesOpenPosition(t *testing.T) {
	// Decline long enough to trigger a buy, then stop the data two candles
	// later, before the stop loss can fire.
	candles := flatThenDecline(25, 2)

	res, err := NewRunner(nil).Run(context.Background(), candles, testConfig(), rangeBoundSettings())

	require.NoError(t, err)
	require.True(t, res.ForcedExit)
	require.NotEmpty(t, res.Trades)

	last := res.Trades[len(res.Trades)-1]
	assert.True(t, last.Closed)
	assert.True(t, last.ForcedExit)
	assert.Equal(t, types.ReasonEndOfData, last.ExitReason)
	// Final balance is the last marked equity minus the exit commission.
	lastEquity := res.EquityCurve[len(res.EquityCurve)-1].Equity
	assert.InDelta(t, lastEquity, res.FinalBalance, lastEquity*0.002)
}

// TestRun_Deterministic tests that identical inputs reproduce identical
// results
func TestRun_Deterministic(t *testing.T) {
	candles := flatThenDecline(25, 30)

	first, err := NewRunner(nil).Run(context.Background(), candles, testConfig(), rangeBoundSettings())
	require.NoError(t, err)
	second, err := NewRunner(nil).Run(context.Background(), candles, testConfig(), rangeBoundSettings())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestRun_SettingsEchoedForReproducibility tests that the result carries
// the merged settings actually used
func TestRun_SettingsEchoedForReproducibility(t *testing.T) {
	res, err := NewRunner(nil).Run(context.Background(), flatThenDecline(25, 30), testConfig(), rangeBoundSettings())

	require.NoError(t, err)
	assert.Equal(t, config.DefaultRSIPeriod, res.Settings.Indicators.RSI.Period)
	assert.Equal(t, 150.0, res.Settings.TrendDetection.ADXThreshold)
}
