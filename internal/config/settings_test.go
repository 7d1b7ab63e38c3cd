package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMerged_FillsDefaults tests that zero-valued fields get documented defaults
func TestMerged_FillsDefaults(t *testing.T) {
	merged := BotSettings{}.Merged()

	assert.Equal(t, DefaultRSIPeriod, merged.Indicators.RSI.Period)
	assert.Equal(t, DefaultMACDFastPeriod, merged.Indicators.MACD.FastPeriod)
	assert.Equal(t, DefaultMACDSlowPeriod, merged.Indicators.MACD.SlowPeriod)
	assert.Equal(t, DefaultMACDSignalPeriod, merged.Indicators.MACD.SignalPeriod)
	assert.Equal(t, DefaultADXPeriod, merged.TrendDetection.ADXPeriod)
	assert.Equal(t, DefaultADXThreshold, merged.TrendDetection.ADXThreshold)
	assert.Equal(t, DefaultEMA200Period, merged.TrendDetection.EMA200Period)
	assert.Equal(t, DefaultStopLossPercent, merged.Trading.StopLossPercent)
	assert.Equal(t, DefaultTakeProfitPercent, merged.Trading.TakeProfitPercent)
	assert.Equal(t, DefaultMaxPositionSize, merged.Trading.MaxPositionSize)
}

// TestMerged_KeepsExplicitValues tests that set fields survive merging
func TestMerged_KeepsExplicitValues(t *testing.T) {
	settings := BotSettings{}
	settings.Indicators.RSI.Period = 7
	settings.Trading.StopLossPercent = 3.5

	merged := settings.Merged()

	assert.Equal(t, 7, merged.Indicators.RSI.Period)
	assert.Equal(t, 3.5, merged.Trading.StopLossPercent)
	assert.Equal(t, DefaultTakeProfitPercent, merged.Trading.TakeProfitPercent)
}

// TestMerged_TrailingStopStaysZero tests that an unset trailing stop is
// left for the risk manager to resolve
func TestMerged_TrailingStopStaysZero(t *testing.T) {
	merged := BotSettings{}.Merged()

	assert.Zero(t, merged.Trading.TrailingStopPercent)
}

// TestMinCandles tests the regime warm-up requirement
func TestMinCandles(t *testing.T) {
	assert.Equal(t, 200, TrendSettings{}.MinCandles()) // ema200 > 2*adx

	small := TrendSettings{ADXPeriod: 30, EMA200Period: 50}
	assert.Equal(t, 60, small.MinCandles()) // 2*adx > ema200
}

// TestValidate_DefaultsAreValid tests the default bundle passes validation
func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.Empty(t, DefaultBotSettings().Validate())
}

// TestValidate_MACDPeriodOrder tests rejection of fast >= slow
func TestValidate_MACDPeriodOrder(t *testing.T) {
	settings := BotSettings{}
	settings.Indicators.MACD.FastPeriod = 26
	settings.Indicators.MACD.SlowPeriod = 12

	errs := settings.Validate()

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "fast period")
}

// TestLoadFile tests JSON loading with default merging
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	raw := `{"indicators":{"rsi":{"period":21}},"trading":{"stop_loss_percent":1.5}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	settings, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, 21, settings.Indicators.RSI.Period)
	assert.Equal(t, 1.5, settings.Trading.StopLossPercent)
	assert.Equal(t, DefaultMACDSlowPeriod, settings.Indicators.MACD.SlowPeriod)
}

// TestLoadFile_Missing tests the error path for an absent file
func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
