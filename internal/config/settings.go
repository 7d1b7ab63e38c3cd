package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default indicator periods. Used whenever a settings field is left at its
// zero value; the core never reads a field without merging defaults first.
const (
	DefaultRSIPeriod        = 14
	DefaultMACDFastPeriod   = 12
	DefaultMACDSlowPeriod   = 26
	DefaultMACDSignalPeriod = 9
	DefaultSMAPeriod        = 20
	DefaultEMAPeriod        = 20
)

// Default trend-detection parameters.
const (
	DefaultADXPeriod     = 14
	DefaultADXThreshold  = 25.0
	DefaultEMA20Period   = 20
	DefaultEMA50Period   = 50
	DefaultEMA200Period  = 200
	DefaultLookbackBars  = 20
)

// Default trading risk parameters.
const (
	DefaultCommissionRate      = 0.001
	DefaultStopLossPercent     = 2.0
	DefaultTakeProfitPercent   = 5.0
	DefaultBreakevenThreshold  = 1.5
	DefaultMaxPositionSize     = 0.95
	DefaultMinConfidenceToBuy  = 60.0
	DefaultMinConfidenceToSell = 50.0
)

// RSISettings configures the RSI indicator.
type RSISettings struct {
	Period int `json:"period"`
}

// MACDSettings configures the MACD indicator.
type MACDSettings struct {
	FastPeriod   int `json:"fast_period"`
	SlowPeriod   int `json:"slow_period"`
	SignalPeriod int `json:"signal_period"`
}

// MovingAverageSettings configures a single moving average (SMA or EMA).
type MovingAverageSettings struct {
	Period int `json:"period"`
}

// IndicatorSettings holds the tunable periods for signal generation.
// Zero-valued fields mean "use the documented default".
type IndicatorSettings struct {
	RSI  RSISettings           `json:"rsi"`
	MACD MACDSettings          `json:"macd"`
	SMA  MovingAverageSettings `json:"sma"`
	EMA  MovingAverageSettings `json:"ema"`
}

// Merged returns a copy with every zero-valued field replaced by its default.
// All indicator consumers must call this before reading individual fields.
func (s IndicatorSettings) Merged() IndicatorSettings {
	out := s
	if out.RSI.Period <= 0 {
		out.RSI.Period = DefaultRSIPeriod
	}
	if out.MACD.FastPeriod <= 0 {
		out.MACD.FastPeriod = DefaultMACDFastPeriod
	}
	if out.MACD.SlowPeriod <= 0 {
		out.MACD.SlowPeriod = DefaultMACDSlowPeriod
	}
	if out.MACD.SignalPeriod <= 0 {
		out.MACD.SignalPeriod = DefaultMACDSignalPeriod
	}
	if out.SMA.Period <= 0 {
		out.SMA.Period = DefaultSMAPeriod
	}
	if out.EMA.Period <= 0 {
		out.EMA.Period = DefaultEMAPeriod
	}
	return out
}

// TrendSettings holds the regime-detection parameters.
type TrendSettings struct {
	ADXPeriod    int     `json:"adx_period"`
	ADXThreshold float64 `json:"adx_threshold"`
	EMA20Period  int     `json:"ema20_period"`
	EMA50Period  int     `json:"ema50_period"`
	EMA200Period int     `json:"ema200_period"`
	LookbackBars int     `json:"lookback_bars"`
}

// Merged returns a copy with defaults filled in for zero-valued fields.
func (s TrendSettings) Merged() TrendSettings {
	out := s
	if out.ADXPeriod <= 0 {
		out.ADXPeriod = DefaultADXPeriod
	}
	if out.ADXThreshold <= 0 {
		out.ADXThreshold = DefaultADXThreshold
	}
	if out.EMA20Period <= 0 {
		out.EMA20Period = DefaultEMA20Period
	}
	if out.EMA50Period <= 0 {
		out.EMA50Period = DefaultEMA50Period
	}
	if out.EMA200Period <= 0 {
		out.EMA200Period = DefaultEMA200Period
	}
	if out.LookbackBars <= 0 {
		out.LookbackBars = DefaultLookbackBars
	}
	return out
}

// MinCandles returns the minimum candle history required for a robust
// regime classification with these settings.
func (s TrendSettings) MinCandles() int {
	m := s.Merged()
	if m.EMA200Period > m.ADXPeriod*2 {
		return m.EMA200Period
	}
	return m.ADXPeriod * 2
}

// TradingSettings holds risk and execution parameters.
// TrailingStopPercent of zero means "reuse StopLossPercent".
type TradingSettings struct {
	CommissionRate      float64 `json:"commission_rate"`
	StopLossPercent     float64 `json:"stop_loss_percent"`
	TakeProfitPercent   float64 `json:"take_profit_percent"`
	TrailingStopPercent float64 `json:"trailing_stop_percent"`
	BreakevenThreshold  float64 `json:"breakeven_threshold"`
	MaxPositionSize     float64 `json:"max_position_size"`
	MinConfidenceToBuy  float64 `json:"min_confidence_to_buy"`
	MinConfidenceToSell float64 `json:"min_confidence_to_sell"`
}

// Merged returns a copy with defaults filled in. TrailingStopPercent is left
// as-is: the risk manager interprets zero as "fall back to stop loss".
func (s TradingSettings) Merged() TradingSettings {
	out := s
	if out.CommissionRate <= 0 {
		out.CommissionRate = DefaultCommissionRate
	}
	if out.StopLossPercent <= 0 {
		out.StopLossPercent = DefaultStopLossPercent
	}
	if out.TakeProfitPercent <= 0 {
		out.TakeProfitPercent = DefaultTakeProfitPercent
	}
	if out.BreakevenThreshold <= 0 {
		out.BreakevenThreshold = DefaultBreakevenThreshold
	}
	if out.MaxPositionSize <= 0 || out.MaxPositionSize > 1 {
		out.MaxPositionSize = DefaultMaxPositionSize
	}
	if out.MinConfidenceToBuy <= 0 {
		out.MinConfidenceToBuy = DefaultMinConfidenceToBuy
	}
	if out.MinConfidenceToSell <= 0 {
		out.MinConfidenceToSell = DefaultMinConfidenceToSell
	}
	return out
}

// BotSettings bundles every tunable the core reads. It is passed into core
// calls as an explicit value; the core never reads ambient configuration.
type BotSettings struct {
	Indicators     IndicatorSettings `json:"indicators"`
	TrendDetection TrendSettings     `json:"trend_detection"`
	Trading        TradingSettings   `json:"trading"`
}

// DefaultBotSettings returns a fully populated settings bundle.
func DefaultBotSettings() BotSettings {
	return BotSettings{}.Merged()
}

// Merged fills defaults into every sub-bundle.
func (s BotSettings) Merged() BotSettings {
	return BotSettings{
		Indicators:     s.Indicators.Merged(),
		TrendDetection: s.TrendDetection.Merged(),
		Trading:        s.Trading.Merged(),
	}
}

// Validate checks structural constraints on the merged bundle.
func (s BotSettings) Validate() []error {
	m := s.Merged()
	var errs []error

	if m.Indicators.MACD.FastPeriod >= m.Indicators.MACD.SlowPeriod {
		errs = append(errs, fmt.Errorf("macd fast period (%d) must be below slow period (%d)",
			m.Indicators.MACD.FastPeriod, m.Indicators.MACD.SlowPeriod))
	}
	if m.Trading.MinConfidenceToBuy < 0 || m.Trading.MinConfidenceToBuy > 100 {
		errs = append(errs, fmt.Errorf("min_confidence_to_buy must be between 0 and 100, got %.1f",
			m.Trading.MinConfidenceToBuy))
	}
	if m.Trading.MinConfidenceToSell < 0 || m.Trading.MinConfidenceToSell > 100 {
		errs = append(errs, fmt.Errorf("min_confidence_to_sell must be between 0 and 100, got %.1f",
			m.Trading.MinConfidenceToSell))
	}
	if m.Trading.MaxPositionSize <= 0 || m.Trading.MaxPositionSize > 1 {
		errs = append(errs, fmt.Errorf("max_position_size must be in (0, 1], got %.2f",
			m.Trading.MaxPositionSize))
	}
	return errs
}

// LoadFile reads a JSON settings bundle from disk and merges defaults.
func LoadFile(path string) (BotSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BotSettings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var settings BotSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return BotSettings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return settings.Merged(), nil
}
