package strategy

import (
	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/indicators"
	"github.com/heliosquant/helios/pkg/types"
)

// Fixed scoring weights and decision floors for the standalone blended mode.
// These are design constants, deliberately not exposed as configuration:
// retuning them invalidates any historical comparison between runs.
const (
	scoreRSIExtreme  = 40.0
	scoreRSILean     = 20.0
	scoreMACDCross   = 30.0
	scorePriceVsMA   = 20.0
	buyScoreFloor    = 60.0
	sellScoreFloor   = 50.0
	rsiLeanLowBand   = 40.0
	rsiLeanHighBand  = 60.0
)

// Score is the legacy regime-free signal mode: it blends RSI bands, MACD
// crossover direction, and price position versus the SMA into opposing buy
// and sell scores, then applies fixed decision floors. Kept for standalone
// analysis where no regime classification is available.
func Score(symbol string, candles []types.Candle, settings config.IndicatorSettings) TradeSignal {
	merged := settings.Merged()

	if len(candles) == 0 {
		return holdSignal(symbol, candles, merged, "",
			types.NewReason(types.ReasonNoData, "no candles available for %s", symbol))
	}

	closes := types.ClosePrices(candles)
	last := candles[len(candles)-1]

	var buyScore, sellScore float64
	snapshot := Snapshot{}

	if rsi := indicators.RSI(closes, merged.RSI.Period); len(rsi) > 0 {
		current := rsi[len(rsi)-1]
		snapshot.RSI = floatPtr(current)
		switch {
		case current < rsiOversold:
			buyScore += scoreRSIExtreme
		case current < rsiLeanLowBand:
			buyScore += scoreRSILean
		case current > rsiOverbought:
			sellScore += scoreRSIExtreme
		case current > rsiLeanHighBand:
			sellScore += scoreRSILean
		}
	}

	if macd := indicators.MACD(closes, merged.MACD.FastPeriod, merged.MACD.SlowPeriod, merged.MACD.SignalPeriod); len(macd) >= 2 {
		prev := macd[len(macd)-2]
		cur := macd[len(macd)-1]
		snapshot.MACD = &cur
		if prev.MACD <= prev.Signal && cur.MACD > cur.Signal {
			buyScore += scoreMACDCross
		} else if prev.MACD >= prev.Signal && cur.MACD < cur.Signal {
			sellScore += scoreMACDCross
		}
	}

	if sma := indicators.SMA(closes, merged.SMA.Period); len(sma) > 0 {
		current := sma[len(sma)-1]
		snapshot.SMA = floatPtr(current)
		if last.Close > current {
			buyScore += scorePriceVsMA
		} else if last.Close < current {
			sellScore += scorePriceVsMA
		}
	}

	if ema := indicators.EMA(closes, merged.EMA.Period); len(ema) > 0 {
		snapshot.EMA = floatPtr(ema[len(ema)-1])
	}

	sig := TradeSignal{
		Symbol:    symbol,
		Signal:    SignalHold,
		Price:     last.Close,
		Timestamp: last.CloseTime,
		Snapshot:  snapshot,
		Settings:  merged,
	}

	switch {
	case buyScore > sellScore && buyScore >= buyScoreFloor:
		sig.Signal = SignalBuy
		sig.Confidence = buyScore
		sig.Reason = types.NewReason(types.ReasonScoreBuy,
			"blended buy score %.0f beat sell score %.0f", buyScore, sellScore)
	case sellScore > buyScore && sellScore >= sellScoreFloor:
		sig.Signal = SignalSell
		sig.Confidence = sellScore
		sig.Reason = types.NewReason(types.ReasonScoreSell,
			"blended sell score %.0f beat buy score %.0f", sellScore, buyScore)
	default:
		diff := buyScore - sellScore
		if diff < 0 {
			diff = -diff
		}
		sig.Confidence = diff
		sig.Reason = types.NewReason(types.ReasonScoreInconclusive,
			"blended scores inconclusive (buy %.0f, sell %.0f)", buyScore, sellScore)
	}
	return sig
}
