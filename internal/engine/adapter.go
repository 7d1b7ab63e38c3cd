package engine

import "time"

// ExecutionAdapter turns trading decisions into balance and position
// mutations. Backtest, paper, and live variants share this one method set;
// the engine depends only on the abstraction.
//
// Each method is individually atomic: either the adapter's state reflects
// the full effect of the call, or it is unchanged.
type ExecutionAdapter interface {
	// Initialize binds the adapter to a symbol and starting balance.
	Initialize(symbol string, initialBalance float64) error

	// Context returns the adapter's current bot context.
	Context(symbol string) (*BotContext, error)

	// UpdatePrice marks the context to the latest price, refreshing
	// unrealized P/L, equity, and the trailing-stop anchor.
	UpdatePrice(symbol string, price float64, timestamp time.Time) error

	// Execute applies one trading decision and reports the outcome.
	// Invariant violations (wrong-state actions) come back as failed
	// results, not errors, so a long run stays resumable.
	Execute(symbol string, decision TradingDecision) (ExecutionResult, error)
}
