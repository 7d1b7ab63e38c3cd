package engine

import (
	"fmt"
	"time"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/pkg/types"
)

// BacktestAdapter simulates fills against an in-memory context. It is a two
// state machine: flat (no position) and long (one open position); BUY moves
// flat to long, any close action moves long back to flat.
type BacktestAdapter struct {
	settings config.BotSettings
	botCtx   *BotContext
}

// NewBacktestAdapter returns an adapter that will apply the given settings
// to every simulated fill. Initialize must be called before use.
func NewBacktestAdapter(settings config.BotSettings) *BacktestAdapter {
	return &BacktestAdapter{settings: settings.Merged()}
}

// Initialize binds the adapter to a symbol and seeds the cash balance.
func (a *BacktestAdapter) Initialize(symbol string, initialBalance float64) error {
	if symbol == "" {
		return fmt.Errorf("backtest adapter: symbol must not be empty")
	}
	if initialBalance <= 0 {
		return fmt.Errorf("backtest adapter: initial balance must be positive, got %.2f", initialBalance)
	}
	a.botCtx = &BotContext{
		Symbol:   symbol,
		Balance:  initialBalance,
		Equity:   initialBalance,
		Settings: a.settings,
	}
	return nil
}

// SetSettings swaps the active settings bundle. Takes effect on the next
// evaluation; an open position is kept as-is.
func (a *BacktestAdapter) SetSettings(settings config.BotSettings) {
	a.settings = settings.Merged()
	if a.botCtx != nil {
		a.botCtx.Settings = a.settings
	}
}

// Context returns the live bot context. Callers treat it as read-only; all
// mutation goes through UpdatePrice and Execute.
func (a *BacktestAdapter) Context(symbol string) (*BotContext, error) {
	if err := a.checkSymbol(symbol); err != nil {
		return nil, err
	}
	return a.botCtx, nil
}

// UpdatePrice marks the context to price at timestamp. With an open position
// it refreshes unrealized P/L and raises the trailing-stop anchor; the
// anchor never moves down.
func (a *BacktestAdapter) UpdatePrice(symbol string, price float64, timestamp time.Time) error {
	if err := a.checkSymbol(symbol); err != nil {
		return err
	}

	a.botCtx.Price = price
	a.botCtx.Timestamp = timestamp

	pos := a.botCtx.Position
	if pos == nil {
		a.botCtx.Equity = a.botCtx.Balance
		return nil
	}

	if price > pos.MaxPriceSinceEntry {
		pos.MaxPriceSinceEntry = price
	}
	cost := pos.Quantity * pos.EntryPrice
	pos.UnrealizedPnL = pos.Quantity*price - cost
	if cost != 0 {
		pos.UnrealizedPnLPct = pos.UnrealizedPnL / cost * 100
	}
	a.botCtx.Equity = a.botCtx.Balance + pos.Quantity*price
	return nil
}

// Execute applies one decision. Wrong-state actions produce a failed result
// with no state change; only a symbol mismatch or missing initialization is
// reported as an error.
func (a *BacktestAdapter) Execute(symbol string, decision TradingDecision) (ExecutionResult, error) {
	if err := a.checkSymbol(symbol); err != nil {
		return ExecutionResult{}, err
	}

	switch {
	case decision.Action == ActionHold:
		res := a.result(ActionHold, decision.Reason)
		res.Success = true
		return res, nil
	case decision.Action == ActionBuy:
		return a.openPosition(decision), nil
	case decision.Action.IsClose():
		return a.closePosition(decision), nil
	default:
		res := a.result(decision.Action, decision.Reason)
		res.Error = fmt.Sprintf("unknown action %q", decision.Action)
		return res, nil
	}
}

func (a *BacktestAdapter) openPosition(decision TradingDecision) ExecutionResult {
	ctx := a.botCtx
	if ctx.Position != nil {
		res := a.result(ActionBuy, decision.Reason)
		res.Error = "cannot buy: a position is already open"
		return res
	}
	if ctx.Balance <= 0 {
		res := a.result(ActionBuy, decision.Reason)
		res.Error = fmt.Sprintf("cannot buy: balance %.2f is not positive", ctx.Balance)
		return res
	}
	if ctx.Price <= 0 {
		res := a.result(ActionBuy, decision.Reason)
		res.Error = fmt.Sprintf("cannot buy: no valid price (%.4f)", ctx.Price)
		return res
	}

	trading := a.settings.Trading
	invested := ctx.Balance * trading.MaxPositionSize
	commission := invested * trading.CommissionRate
	quantity := (invested - commission) / ctx.Price

	ctx.Balance -= invested
	ctx.Position = &Position{
		Symbol:             ctx.Symbol,
		Side:               SideLong,
		EntryPrice:         ctx.Price,
		Quantity:           quantity,
		EntryTime:          ctx.Timestamp,
		MaxPriceSinceEntry: ctx.Price,
	}
	ctx.Equity = ctx.Balance + quantity*ctx.Price

	res := a.result(ActionBuy, decision.Reason)
	res.Success = true
	res.FillPrice = ctx.Price
	res.Quantity = quantity
	res.Commission = commission
	return res
}

func (a *BacktestAdapter) closePosition(decision TradingDecision) ExecutionResult {
	ctx := a.botCtx
	pos := ctx.Position
	if pos == nil {
		res := a.result(decision.Action, decision.Reason)
		res.Error = "cannot close: no open position"
		return res
	}

	trading := a.settings.Trading
	proceeds := pos.Quantity * ctx.Price
	commission := proceeds * trading.CommissionRate
	net := proceeds - commission
	cost := pos.Quantity * pos.EntryPrice
	pnl := net - cost
	pnlPct := 0.0
	if cost != 0 {
		pnlPct = pnl / cost * 100
	}

	ctx.Balance += net
	ctx.Position = nil
	ctx.Equity = ctx.Balance

	res := a.result(decision.Action, decision.Reason)
	res.Success = true
	res.FillPrice = ctx.Price
	res.Quantity = pos.Quantity
	res.Commission = commission
	res.PnL = pnl
	res.PnLPct = pnlPct
	return res
}

// result snapshots the current context into a base execution record.
func (a *BacktestAdapter) result(action Action, reason types.Reason) ExecutionResult {
	ctx := a.botCtx
	res := ExecutionResult{
		Action:    action,
		Balance:   ctx.Balance,
		Equity:    ctx.Equity,
		Timestamp: ctx.Timestamp,
		Reason:    reason,
	}
	if ctx.Position != nil {
		posCopy := *ctx.Position
		res.Position = &posCopy
	}
	return res
}

func (a *BacktestAdapter) checkSymbol(symbol string) error {
	if a.botCtx == nil {
		return ErrNotInitialized
	}
	if symbol != a.botCtx.Symbol {
		return fmt.Errorf("%w: got %q, bound to %q", ErrSymbolMismatch, symbol, a.botCtx.Symbol)
	}
	return nil
}
