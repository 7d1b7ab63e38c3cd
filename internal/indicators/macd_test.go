package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMACD_ConstantSeries tests that a flat series produces zero MACD
func TestMACD_ConstantSeries(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100.0
	}

	out := MACD(values, 12, 26, 9)

	assert.Len(t, out, 60-26-9+2)
	for _, p := range out {
		assert.InDelta(t, 0.0, p.MACD, 1e-9)
		assert.InDelta(t, 0.0, p.Signal, 1e-9)
		assert.InDelta(t, 0.0, p.Histogram, 1e-9)
	}
}

// TestMACD_RisingSeriesIsPositive tests MACD sign on a sustained rise
func TestMACD_RisingSeriesIsPositive(t *testing.T) {
	values := make([]float64, 80)
	for i := range values {
		values[i] = 100 + float64(i)*2
	}

	out := MACD(values, 12, 26, 9)

	assert.NotEmpty(t, out)
	last := out[len(out)-1]
	assert.Greater(t, last.MACD, 0.0)
	assert.Greater(t, last.Signal, 0.0)
}

// TestMACD_BullishCrossAfterFlat tests that a jump after a flat stretch
// lifts the MACD line above its signal line
func TestMACD_BullishCrossAfterFlat(t *testing.T) {
	values := make([]float64, 61)
	for i := 0; i < 60; i++ {
		values[i] = 100.0
	}
	values[60] = 110.0

	out := MACD(values, 12, 26, 9)

	assert.GreaterOrEqual(t, len(out), 2)
	prev := out[len(out)-2]
	cur := out[len(out)-1]
	assert.LessOrEqual(t, prev.MACD, prev.Signal)
	assert.Greater(t, cur.MACD, cur.Signal)
	assert.Greater(t, cur.Histogram, 0.0)
}

// TestMACD_HistogramIsLineMinusSignal tests the histogram identity
func TestMACD_HistogramIsLineMinusSignal(t *testing.T) {
	values := make([]float64, 70)
	for i := range values {
		values[i] = 100 + float64(i%7)
	}

	out := MACD(values, 12, 26, 9)

	assert.NotEmpty(t, out)
	for _, p := range out {
		assert.InDelta(t, p.MACD-p.Signal, p.Histogram, 1e-9)
	}
}

// TestMACD_InsufficientData tests the warm-up boundary
func TestMACD_InsufficientData(t *testing.T) {
	values := make([]float64, 33) // needs slow+signal-1 = 34
	for i := range values {
		values[i] = float64(i)
	}

	assert.Nil(t, MACD(values, 12, 26, 9))
	assert.NotNil(t, MACD(append(values, 34), 12, 26, 9))
}
