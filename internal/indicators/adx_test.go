package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/heliosquant/helios/pkg/types"
)

func trendCandles(n int, start, step float64) []types.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, n)
	for i := range candles {
		price := start + float64(i)*step
		candles[i] = types.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    1000,
		}
	}
	return candles
}

// TestADX_StrongUptrend tests directional components on a sustained rise
func TestADX_StrongUptrend(t *testing.T) {
	candles := trendCandles(60, 100, 2)

	out := ADX(candles, 14)

	assert.Len(t, out, 60-2*14+1)
	last := out[len(out)-1]
	assert.Greater(t, last.PlusDI, last.MinusDI)
	assert.Greater(t, last.ADX, 25.0)
}

// TestADX_StrongDowntrend tests directional components on a sustained fall
func TestADX_StrongDowntrend(t *testing.T) {
	candles := trendCandles(60, 200, -2)

	out := ADX(candles, 14)

	assert.NotEmpty(t, out)
	last := out[len(out)-1]
	assert.Greater(t, last.MinusDI, last.PlusDI)
	assert.Greater(t, last.ADX, 25.0)
}

// TestADX_InsufficientData tests the 2*period warm-up boundary
func TestADX_InsufficientData(t *testing.T) {
	assert.Nil(t, ADX(trendCandles(27, 100, 1), 14))
	assert.Len(t, ADX(trendCandles(28, 100, 1), 14), 1)
}

// TestADX_Bounds tests that every component stays within [0, 100]
func TestADX_Bounds(t *testing.T) {
	candles := trendCandles(80, 100, 1)
	for i := range candles {
		if i%3 == 0 {
			candles[i].Close = candles[i].Open - 0.3
			candles[i].Low = candles[i].Close - 0.5
		}
	}

	out := ADX(candles, 14)

	assert.NotEmpty(t, out)
	for _, p := range out {
		assert.GreaterOrEqual(t, p.ADX, 0.0)
		assert.LessOrEqual(t, p.ADX, 100.0)
		assert.GreaterOrEqual(t, p.PlusDI, 0.0)
		assert.GreaterOrEqual(t, p.MinusDI, 0.0)
	}
}
