package strategy

import (
	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/indicators"
	"github.com/heliosquant/helios/pkg/types"
)

// RegimeType classifies the recent character of a market.
type RegimeType string

const (
	RegimeBullish  RegimeType = "BULLISH"
	RegimeBearish  RegimeType = "BEARISH"
	RegimeSideways RegimeType = "SIDEWAYS"
)

// regimeConfidence is a fixed placeholder until a calibrated confidence
// model exists; strength (raw ADX) is the meaningful number.
const regimeConfidence = 0.5

// MarketRegime is the result of one classification pass. It is produced
// fresh on every evaluation and never persisted.
type MarketRegime struct {
	Type        RegimeType `json:"type"`
	Strength    float64    `json:"strength"`
	Confidence  float64    `json:"confidence"`
	Recommended Kind       `json:"recommended_strategy"`
}

// DetectRegime classifies the candle window into a market regime and maps it
// to a recommended strategy.
//
// A regime is only called trending when ADX clears the configured threshold;
// direction then needs both the DI spread and the EMA200 position to agree.
// Mixed direction signals are treated as transition and fall back to
// SIDEWAYS rather than forming a third regime.
func DetectRegime(candles []types.Candle, settings config.TrendSettings) MarketRegime {
	s := settings.Merged()

	if len(candles) < s.MinCandles() {
		return sidewaysRegime(0)
	}

	closes := types.ClosePrices(candles)
	ema200 := indicators.EMA(closes, s.EMA200Period)
	adx := indicators.ADX(candles, s.ADXPeriod)
	if len(adx) == 0 || len(ema200) == 0 {
		return sidewaysRegime(0)
	}

	last := adx[len(adx)-1]
	if last.ADX <= s.ADXThreshold {
		return sidewaysRegime(last.ADX)
	}

	lastClose := closes[len(closes)-1]
	longTermEMA := ema200[len(ema200)-1]
	bullishDirection := last.PlusDI > last.MinusDI
	aboveLongTerm := lastClose > longTermEMA

	switch {
	case bullishDirection && aboveLongTerm:
		return MarketRegime{
			Type:        RegimeBullish,
			Strength:    last.ADX,
			Confidence:  regimeConfidence,
			Recommended: KindTrendFollowing,
		}
	case !bullishDirection && !aboveLongTerm:
		return MarketRegime{
			Type:        RegimeBearish,
			Strength:    last.ADX,
			Confidence:  regimeConfidence,
			Recommended: KindHold,
		}
	default:
		return sidewaysRegime(last.ADX)
	}
}

func sidewaysRegime(strength float64) MarketRegime {
	return MarketRegime{
		Type:        RegimeSideways,
		Strength:    strength,
		Confidence:  regimeConfidence,
		Recommended: KindMeanReversion,
	}
}
