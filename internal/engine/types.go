package engine

import (
	"time"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/strategy"
	"github.com/heliosquant/helios/pkg/types"
)

// Action is the gated trading action an adapter is asked to execute.
type Action string

const (
	ActionBuy           Action = "BUY"
	ActionSell          Action = "SELL"
	ActionHold          Action = "HOLD"
	ActionCloseStopLoss Action = "CLOSE_SL"
	ActionCloseTakeProfit Action = "CLOSE_TP"
	ActionCloseTrailing Action = "CLOSE_TRAILING"
)

// IsClose reports whether the action exits an open position.
func (a Action) IsClose() bool {
	switch a {
	case ActionSell, ActionCloseStopLoss, ActionCloseTakeProfit, ActionCloseTrailing:
		return true
	}
	return false
}

// Side of an open position. Only long positions exist in the current scope;
// the field is kept so records stay unambiguous if shorts are ever added.
type Side string

const SideLong Side = "LONG"

// Position is one open holding. It is owned exclusively by the BotContext
// that carries it and is mutated in place on every price update.
type Position struct {
	Symbol             string    `json:"symbol"`
	Side               Side      `json:"side"`
	EntryPrice         float64   `json:"entry_price"`
	Quantity           float64   `json:"quantity"`
	EntryTime          time.Time `json:"entry_time"`
	UnrealizedPnL      float64   `json:"unrealized_pnl"`
	UnrealizedPnLPct   float64   `json:"unrealized_pnl_pct"`
	MaxPriceSinceEntry float64   `json:"max_price_since_entry"`
}

// BotContext is the single mutable state threaded through one simulation:
// current market view, cash, the open position if any, and the settings in
// force. At most one context exists per symbol per run.
type BotContext struct {
	Symbol    string             `json:"symbol"`
	Timestamp time.Time          `json:"timestamp"`
	Price     float64            `json:"price"`
	Position  *Position          `json:"position,omitempty"`
	Balance   float64            `json:"balance"`
	Equity    float64            `json:"equity"`
	Settings  config.BotSettings `json:"settings"`
}

// RiskPrices are the prospective exit levels for a position opened at a
// given entry price.
type RiskPrices struct {
	StopLoss        float64 `json:"stop_loss"`
	TakeProfit      float64 `json:"take_profit"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
}

// DecisionMetadata carries the inputs that produced a decision, for audit.
type DecisionMetadata struct {
	Signal       *strategy.TradeSignal  `json:"signal,omitempty"`
	Regime       *strategy.MarketRegime `json:"regime,omitempty"`
	RiskPrices   *RiskPrices            `json:"risk_prices,omitempty"`
	TriggerPrice float64                `json:"trigger_price,omitempty"`
}

// TradingDecision is the final, gated action for one candle. It is produced
// once and consumed immediately by the execution adapter.
type TradingDecision struct {
	Action     Action           `json:"action"`
	Reason     types.Reason     `json:"reason"`
	Confidence float64          `json:"confidence,omitempty"`
	Metadata   DecisionMetadata `json:"metadata,omitempty"`
}

// ExecutionResult is the immutable record of one execution attempt.
type ExecutionResult struct {
	Success    bool         `json:"success"`
	Action     Action       `json:"action"`
	FillPrice  float64      `json:"fill_price,omitempty"`
	Quantity   float64      `json:"quantity,omitempty"`
	Commission float64      `json:"commission,omitempty"`
	PnL        float64      `json:"pnl,omitempty"`
	PnLPct     float64      `json:"pnl_pct,omitempty"`
	Balance    float64      `json:"balance"`
	Equity     float64      `json:"equity"`
	Position   *Position    `json:"position,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
	Reason     types.Reason `json:"reason"`
	Error      string       `json:"error,omitempty"`
}
