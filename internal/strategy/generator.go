package strategy

import (
	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/indicators"
	"github.com/heliosquant/helios/pkg/types"
)

// RSI band boundaries. These are design constants, not configuration; the
// tunable knob is the RSI period, not the bands.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// Generate produces a trade signal for the symbol from the candle history,
// using the strategy selected for the current regime. It is a pure function
// of its inputs; missing settings fields fall back to documented defaults.
func Generate(symbol string, candles []types.Candle, settings config.IndicatorSettings, kind Kind) TradeSignal {
	merged := settings.Merged()

	if len(candles) == 0 {
		return holdSignal(symbol, candles, merged, kind,
			types.NewReason(types.ReasonNoData, "no candles available for %s", symbol))
	}

	switch kind {
	case KindMeanReversion:
		return meanReversionSignal(symbol, candles, merged)
	case KindTrendFollowing:
		return trendFollowingSignal(symbol, candles, merged)
	default:
		return holdSignal(symbol, candles, merged, KindHold,
			types.NewReason(types.ReasonStrategyHold, "regime recommends staying out of the market"))
	}
}

// meanReversionSignal trades RSI extremes. It is intentionally binary: the
// band either fires at full confidence or it does not.
func meanReversionSignal(symbol string, candles []types.Candle, settings config.IndicatorSettings) TradeSignal {
	closes := types.ClosePrices(candles)
	rsi := indicators.RSI(closes, settings.RSI.Period)
	if len(rsi) == 0 {
		return holdSignal(symbol, candles, settings, KindMeanReversion,
			types.NewReason(types.ReasonNoData, "not enough candles for RSI(%d)", settings.RSI.Period))
	}

	last := candles[len(candles)-1]
	current := rsi[len(rsi)-1]
	sig := TradeSignal{
		Symbol:    symbol,
		Signal:    SignalHold,
		Price:     last.Close,
		Timestamp: last.CloseTime,
		Snapshot:  Snapshot{RSI: floatPtr(current)},
		Settings:  settings,
		Strategy:  KindMeanReversion,
	}

	switch {
	case current < rsiOversold:
		sig.Signal = SignalBuy
		sig.Confidence = 100
		sig.Reason = types.NewReason(types.ReasonRSIOversold, "RSI %.2f below %.0f", current, rsiOversold)
	case current > rsiOverbought:
		sig.Signal = SignalSell
		sig.Confidence = 100
		sig.Reason = types.NewReason(types.ReasonRSIOverbought, "RSI %.2f above %.0f", current, rsiOverbought)
	default:
		sig.Reason = types.NewReason(types.ReasonRSINeutral, "RSI %.2f inside neutral band", current)
	}
	return sig
}

// trendFollowingSignal trades MACD signal-line crossovers. Two computed MACD
// points are required to observe a cross.
func trendFollowingSignal(symbol string, candles []types.Candle, settings config.IndicatorSettings) TradeSignal {
	closes := types.ClosePrices(candles)
	macd := indicators.MACD(closes, settings.MACD.FastPeriod, settings.MACD.SlowPeriod, settings.MACD.SignalPeriod)
	if len(macd) < 2 {
		return holdSignal(symbol, candles, settings, KindTrendFollowing,
			types.NewReason(types.ReasonNoData, "not enough candles for MACD(%d,%d,%d) crossover detection",
				settings.MACD.FastPeriod, settings.MACD.SlowPeriod, settings.MACD.SignalPeriod))
	}

	last := candles[len(candles)-1]
	prev := macd[len(macd)-2]
	cur := macd[len(macd)-1]
	sig := TradeSignal{
		Symbol:    symbol,
		Signal:    SignalHold,
		Price:     last.Close,
		Timestamp: last.CloseTime,
		Snapshot:  Snapshot{MACD: &cur},
		Settings:  settings,
		Strategy:  KindTrendFollowing,
	}

	bullishCross := prev.MACD <= prev.Signal && cur.MACD > cur.Signal && cur.Histogram > 0
	bearishCross := prev.MACD >= prev.Signal && cur.MACD < cur.Signal

	switch {
	case bullishCross:
		sig.Signal = SignalBuy
		sig.Confidence = 100
		sig.Reason = types.NewReason(types.ReasonMACDBullishCross,
			"MACD %.4f crossed above signal %.4f with positive histogram", cur.MACD, cur.Signal)
	case bearishCross:
		sig.Signal = SignalSell
		sig.Confidence = 100
		sig.Reason = types.NewReason(types.ReasonMACDBearishCross,
			"MACD %.4f crossed below signal %.4f", cur.MACD, cur.Signal)
	default:
		sig.Reason = types.NewReason(types.ReasonMACDNoCross, "no MACD crossover on the latest candle")
	}
	return sig
}
