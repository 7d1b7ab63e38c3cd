package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heliosquant/helios/internal/config"
)

var testTrendSettings = config.TrendSettings{
	ADXPeriod:    5,
	EMA200Period: 20,
}

// TestDetectRegime_InsufficientData tests the warm-up boundary fallback
func TestDetectRegime_InsufficientData(t *testing.T) {
	candles := candlesFromCloses(risingCloses(19)) // needs 20

	regime := DetectRegime(candles, testTrendSettings)

	assert.Equal(t, RegimeSideways, regime.Type)
	assert.Zero(t, regime.Strength)
	assert.Equal(t, KindMeanReversion, regime.Recommended)
}

// TestDetectRegime_Bullish tests a strong rise above the long-term average
func TestDetectRegime_Bullish(t *testing.T) {
	candles := candlesFromCloses(risingCloses(60))

	regime := DetectRegime(candles, testTrendSettings)

	assert.Equal(t, RegimeBullish, regime.Type)
	assert.Greater(t, regime.Strength, config.DefaultADXThreshold)
	assert.Equal(t, KindTrendFollowing, regime.Recommended)
}

// TestDetectRegime_Bearish tests a strong fall below the long-term average
func TestDetectRegime_Bearish(t *testing.T) {
	candles := candlesFromCloses(fallingCloses(60))

	regime := DetectRegime(candles, testTrendSettings)

	assert.Equal(t, RegimeBearish, regime.Type)
	assert.Equal(t, KindHold, regime.Recommended)
}

// TestDetectRegime_WeakTrendIsSideways tests that low ADX suppresses trends
func TestDetectRegime_WeakTrendIsSideways(t *testing.T) {
	// Alternating closes produce balanced directional movement.
	closes := make([]float64, 60)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 101
		}
	}

	regime := DetectRegime(candlesFromCloses(closes), testTrendSettings)

	assert.Equal(t, RegimeSideways, regime.Type)
	assert.Equal(t, KindMeanReversion, regime.Recommended)
}

// TestDetectRegime_ThresholdGate tests that a raised threshold reclassifies
// a trending market as sideways
func TestDetectRegime_ThresholdGate(t *testing.T) {
	candles := candlesFromCloses(risingCloses(60))
	strict := testTrendSettings
	strict.ADXThreshold = 150 // unreachable

	regime := DetectRegime(candles, strict)

	assert.Equal(t, RegimeSideways, regime.Type)
	assert.Greater(t, regime.Strength, 0.0)
}

// TestDetectRegime_StrengthIsADX tests the strength-from-ADX contract
func TestDetectRegime_StrengthIsADX(t *testing.T) {
	candles := candlesFromCloses(risingCloses(60))

	regime := DetectRegime(candles, testTrendSettings)

	assert.Greater(t, regime.Strength, 0.0)
	assert.LessOrEqual(t, regime.Strength, 100.0)
	assert.InDelta(t, 0.5, regime.Confidence, 1e-9)
}
