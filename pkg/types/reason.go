package types

import "fmt"

// ReasonCode is a stable identifier for why a signal or decision was produced.
// Callers and tests match on codes; Detail is only for humans.
type ReasonCode string

const (
	// Signal generation
	ReasonNoData            ReasonCode = "no_data"
	ReasonRSIOversold       ReasonCode = "rsi_oversold"
	ReasonRSIOverbought     ReasonCode = "rsi_overbought"
	ReasonRSINeutral        ReasonCode = "rsi_neutral"
	ReasonMACDBullishCross  ReasonCode = "macd_bullish_cross"
	ReasonMACDBearishCross  ReasonCode = "macd_bearish_cross"
	ReasonMACDNoCross       ReasonCode = "macd_no_cross"
	ReasonStrategyHold      ReasonCode = "strategy_hold"
	ReasonScoreBuy          ReasonCode = "score_buy"
	ReasonScoreSell         ReasonCode = "score_sell"
	ReasonScoreInconclusive ReasonCode = "score_inconclusive"

	// Decision conversion
	ReasonPositionAlreadyOpen ReasonCode = "position_already_open"
	ReasonNoPositionToClose   ReasonCode = "no_position_to_close"
	ReasonConfidenceBelowMin  ReasonCode = "confidence_below_min"
	ReasonSignalAccepted      ReasonCode = "signal_accepted"

	// Risk management
	ReasonNoPositionToManage ReasonCode = "no_position_to_manage"
	ReasonStopLoss           ReasonCode = "stop_loss"
	ReasonTakeProfit         ReasonCode = "take_profit"
	ReasonTrailingStop       ReasonCode = "trailing_stop"
	ReasonRiskWithinLimits   ReasonCode = "risk_within_limits"

	// Execution / runner
	ReasonEndOfData     ReasonCode = "end_of_data"
	ReasonEngineFailure ReasonCode = "engine_failure"
)

// Reason pairs a machine-matchable code with formatted human text.
type Reason struct {
	Code   ReasonCode `json:"code"`
	Detail string     `json:"detail,omitempty"`
}

// NewReason builds a Reason with a formatted detail message.
func NewReason(code ReasonCode, format string, args ...interface{}) Reason {
	return Reason{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func (r Reason) String() string {
	if r.Detail == "" {
		return string(r.Code)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Detail)
}
