package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSMA_KnownValues tests SMA against hand-computed values
func TestSMA_KnownValues(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	out := SMA(values, 3)

	assert.Equal(t, []float64{2, 3, 4}, out)
}

// TestSMA_InsufficientData tests SMA with fewer values than the period
func TestSMA_InsufficientData(t *testing.T) {
	assert.Nil(t, SMA([]float64{1, 2}, 3))
	assert.Nil(t, SMA(nil, 3))
}

// TestSMA_OutputLength tests the warm-up length contract
func TestSMA_OutputLength(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i)
	}

	out := SMA(values, 20)

	assert.Len(t, out, 31) // n - period + 1
}

// TestEMA_ConstantSeries tests that EMA of a constant series is the constant
func TestEMA_ConstantSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 42.0
	}

	out := EMA(values, 10)

	assert.Len(t, out, 21)
	for _, v := range out {
		assert.InDelta(t, 42.0, v, 1e-9)
	}
}

// TestEMA_TracksRisingSeries tests that EMA lags below a rising series
func TestEMA_TracksRisingSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100 + float64(i)
	}

	out := EMA(values, 10)

	assert.NotEmpty(t, out)
	last := out[len(out)-1]
	assert.Less(t, last, values[len(values)-1])
	assert.Greater(t, last, values[len(values)-10])
}

// TestEMA_InsufficientData tests EMA with fewer values than the period
func TestEMA_InsufficientData(t *testing.T) {
	assert.Nil(t, EMA([]float64{1, 2, 3}, 5))
}
