package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/pkg/types"
)

// TestScore_NoCandles tests the empty-history fallback
func TestScore_NoCandles(t *testing.T) {
	sig := Score("BTCUSDT", nil, config.IndicatorSettings{})

	assert.Equal(t, SignalHold, sig.Signal)
	assert.Equal(t, types.ReasonNoData, sig.Reason.Code)
}

// TestScore_SellOnBreakdown tests the blended SELL: a flat market breaking
// down scores a bearish MACD cross plus price below the moving average
func TestScore_SellOnBreakdown(t *testing.T) {
	sig := Score("BTCUSDT", candlesFromCloses(flatThenJump(60, 100, -10)), config.IndicatorSettings{})

	assert.Equal(t, SignalSell, sig.Signal)
	assert.Equal(t, types.ReasonScoreSell, sig.Reason.Code)
	assert.GreaterOrEqual(t, sig.Confidence, 50.0)
}

// TestScore_BuyOnReversal tests the blended BUY: an oversold decline that
// snaps back scores the RSI extreme, a bullish MACD cross, and price above
// a short moving average
func TestScore_BuyOnReversal(t *testing.T) {
	closes := append(fallingCloses(60), 90) // decline to 82, then snap to 90
	settings := config.IndicatorSettings{SMA: config.MovingAverageSettings{Period: 5}}

	sig := Score("BTCUSDT", candlesFromCloses(closes), settings)

	assert.Equal(t, SignalBuy, sig.Signal)
	assert.Equal(t, types.ReasonScoreBuy, sig.Reason.Code)
	assert.GreaterOrEqual(t, sig.Confidence, 60.0)
}

// TestScore_InconclusiveOnSteadyDecline tests that a steady decline without
// a crossover stays below the decision floors
func TestScore_InconclusiveOnSteadyDecline(t *testing.T) {
	sig := Score("BTCUSDT", candlesFromCloses(fallingCloses(60)), config.IndicatorSettings{})

	assert.Equal(t, SignalHold, sig.Signal)
	assert.Equal(t, types.ReasonScoreInconclusive, sig.Reason.Code)
}

// TestScore_SnapshotPopulated tests that the snapshot carries every
// indicator once warm-up is satisfied
func TestScore_SnapshotPopulated(t *testing.T) {
	sig := Score("BTCUSDT", candlesFromCloses(risingCloses(80)), config.IndicatorSettings{})

	require.NotNil(t, sig.Snapshot.RSI)
	require.NotNil(t, sig.Snapshot.MACD)
	require.NotNil(t, sig.Snapshot.SMA)
	require.NotNil(t, sig.Snapshot.EMA)
}
