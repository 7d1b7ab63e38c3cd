package strategy

import (
	"time"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/indicators"
	"github.com/heliosquant/helios/pkg/types"
)

// Signal is the raw recommendation produced by a strategy, before any
// position or confidence gating.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Kind identifies which strategy produced (or should produce) a signal.
type Kind string

const (
	KindTrendFollowing Kind = "TREND_FOLLOWING"
	KindMeanReversion  Kind = "MEAN_REVERSION"
	KindHold           Kind = "HOLD"
)

// Snapshot captures the indicator values observed at one candle. Nil fields
// mean the indicator had insufficient warm-up data at that point.
type Snapshot struct {
	RSI  *float64              `json:"rsi,omitempty"`
	MACD *indicators.MACDPoint `json:"macd,omitempty"`
	SMA  *float64              `json:"sma,omitempty"`
	EMA  *float64              `json:"ema,omitempty"`
}

// TradeSignal is one scored recommendation together with everything needed
// to audit it: the indicator snapshot, the settings in force, and the
// strategy that produced it.
type TradeSignal struct {
	Symbol     string                   `json:"symbol"`
	Signal     Signal                   `json:"signal"`
	Confidence float64                  `json:"confidence"`
	Reason     types.Reason             `json:"reason"`
	Price      float64                  `json:"price"`
	Timestamp  time.Time                `json:"timestamp"`
	Snapshot   Snapshot                 `json:"snapshot"`
	Settings   config.IndicatorSettings `json:"settings"`
	Strategy   Kind                     `json:"strategy,omitempty"`
}

func floatPtr(v float64) *float64 { return &v }

func holdSignal(symbol string, candles []types.Candle, settings config.IndicatorSettings, kind Kind, reason types.Reason) TradeSignal {
	sig := TradeSignal{
		Symbol:     symbol,
		Signal:     SignalHold,
		Confidence: 0,
		Reason:     reason,
		Settings:   settings,
		Strategy:   kind,
	}
	if len(candles) > 0 {
		last := candles[len(candles)-1]
		sig.Price = last.Close
		sig.Timestamp = last.CloseTime
	}
	return sig
}
