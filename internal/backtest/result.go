package backtest

import (
	"time"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/pkg/types"
)

// Trade is one completed (or still open) entry/exit pair.
type Trade struct {
	Symbol     string           `json:"symbol"`
	EntryTime  time.Time        `json:"entry_time"`
	EntryPrice float64          `json:"entry_price"`
	Quantity   float64          `json:"quantity"`
	ExitTime   time.Time        `json:"exit_time,omitempty"`
	ExitPrice  float64          `json:"exit_price,omitempty"`
	Commission float64          `json:"commission"`
	PnL        float64          `json:"pnl"`
	PnLPct     float64          `json:"pnl_pct"`
	ExitReason types.ReasonCode `json:"exit_reason,omitempty"`
	ForcedExit bool             `json:"forced_exit,omitempty"`
	Closed     bool             `json:"closed"`
}

// EquityPoint is one sample of the equity curve, taken after every candle.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// RegimeBreakdown counts how many evaluated candles fell into each regime.
type RegimeBreakdown struct {
	Bullish  int `json:"bullish"`
	Bearish  int `json:"bearish"`
	Sideways int `json:"sideways"`
}

// ExitCounts tallies completed trades by what triggered the exit.
type ExitCounts struct {
	StopLoss   int `json:"stop_loss"`
	TakeProfit int `json:"take_profit"`
	Trailing   int `json:"trailing"`
	Signal     int `json:"signal"`
}

// Result is the complete outcome of one backtest run. Two runs over
// identical candles and settings produce identical results.
type Result struct {
	Symbol         string    `json:"symbol"`
	Interval       string    `json:"interval"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	InitialBalance float64   `json:"initial_balance"`
	FinalBalance   float64   `json:"final_balance"`

	TotalOperations int     `json:"total_operations"`
	CompletedTrades int     `json:"completed_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	ProfitLoss      float64 `json:"profit_loss"`
	ProfitLossPct   float64 `json:"profit_loss_pct"`
	WinRate         float64 `json:"win_rate"`
	AverageWin      float64 `json:"average_win"`
	AverageLoss     float64 `json:"average_loss"`

	// ProfitFactorCapped marks the undefined case of wins with zero
	// losses; ProfitFactor is 0 then, never floating-point infinity.
	ProfitFactor       float64 `json:"profit_factor"`
	ProfitFactorCapped bool    `json:"profit_factor_capped"`
	MaxDrawdown        float64 `json:"max_drawdown"`

	Trades      []Trade         `json:"trades"`
	EquityCurve []EquityPoint   `json:"equity_curve"`
	Regimes     RegimeBreakdown `json:"regimes"`
	Exits       ExitCounts      `json:"exits"`
	ForcedExit  bool            `json:"forced_exit"`

	// Settings actually used, for reproducibility.
	Settings config.BotSettings `json:"settings"`
}
