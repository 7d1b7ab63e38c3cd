package backtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/engine"
	"github.com/heliosquant/helios/internal/logger"
	"github.com/heliosquant/helios/internal/strategy"
	"github.com/heliosquant/helios/pkg/types"
)

// Config parameterizes one backtest run.
type Config struct {
	Symbol         string
	Interval       string
	InitialBalance float64
}

// Runner drives the trading engine over a historical candle sequence and
// aggregates trades, the equity curve, and performance metrics.
type Runner struct {
	engine *engine.TradingEngine
	log    *logger.Logger
}

// NewRunner returns a runner logging through log. A nil log disables logging.
func NewRunner(log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{engine: engine.New(log), log: log}
}

// warmupLength is the candle count every indicator in the pipeline needs
// before its first value exists.
func warmupLength(settings config.BotSettings) int {
	w := settings.Indicators.RSI.Period
	if trend := settings.TrendDetection.MinCandles(); trend > w {
		w = trend
	}
	return w
}

// Run replays candles through the engine one at a time. Each engine call
// receives only the prefix of history up to the candle under evaluation, so
// lookahead is structurally impossible. A position still open after the last
// candle is force-closed at that candle's price so the result accounts for
// all capital.
//
// Configuration problems (invalid settings, not enough history for warm-up)
// are returned before any simulation runs; a returned Result is always
// complete.
func (r *Runner) Run(ctx context.Context, candles []types.Candle, cfg Config, settings config.BotSettings) (*Result, error) {
	merged := settings.Merged()
	if errs := engine.ValidateConfiguration(merged); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("backtest config: symbol must not be empty")
	}
	if cfg.InitialBalance <= 0 {
		return nil, fmt.Errorf("backtest config: initial balance must be positive, got %.2f", cfg.InitialBalance)
	}

	warmup := warmupLength(merged)
	if len(candles) <= warmup {
		return nil, fmt.Errorf("%w: need more than %d candles, got %d",
			engine.ErrInsufficientHistory, warmup, len(candles))
	}

	adapter := engine.NewBacktestAdapter(merged)
	if err := adapter.Initialize(cfg.Symbol, cfg.InitialBalance); err != nil {
		return nil, err
	}

	res := &Result{
		Symbol:         cfg.Symbol,
		Interval:       cfg.Interval,
		StartTime:      candles[0].OpenTime,
		EndTime:        candles[len(candles)-1].CloseTime,
		InitialBalance: cfg.InitialBalance,
		Settings:       merged,
	}
	r.log.Info("backtest started: %s %s, %d candles, warm-up %d", cfg.Symbol, cfg.Interval, len(candles), warmup)

	openTrade := -1
	for i := warmup; i < len(candles); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		history := candles[:i+1]
		execRes, err := r.engine.ProcessCandle(cfg.Symbol, history, adapter)
		if err != nil {
			return nil, fmt.Errorf("backtest aborted at candle %d: %w", i, err)
		}

		regime := strategy.DetectRegime(history, merged.TrendDetection)
		switch regime.Type {
		case strategy.RegimeBullish:
			res.Regimes.Bullish++
		case strategy.RegimeBearish:
			res.Regimes.Bearish++
		default:
			res.Regimes.Sideways++
		}

		openTrade = r.record(res, execRes, openTrade)

		botCtx, err := adapter.Context(cfg.Symbol)
		if err != nil {
			return nil, err
		}
		res.EquityCurve = append(res.EquityCurve, EquityPoint{
			Timestamp: candles[i].CloseTime,
			Equity:    botCtx.Equity,
		})
	}

	if err := r.forceClose(res, adapter, cfg.Symbol, openTrade); err != nil {
		return nil, err
	}

	botCtx, err := adapter.Context(cfg.Symbol)
	if err != nil {
		return nil, err
	}
	res.FinalBalance = botCtx.Balance
	computeMetrics(res)

	r.log.Info("backtest finished: %d operations, %d completed trades, final balance %.2f",
		res.TotalOperations, res.CompletedTrades, res.FinalBalance)
	return res, nil
}

// record folds one execution result into the running trade list. It returns
// the index of the currently open trade, or -1.
func (r *Runner) record(res *Result, execRes engine.ExecutionResult, openTrade int) int {
	if !execRes.Success || execRes.Action == engine.ActionHold {
		return openTrade
	}
	res.TotalOperations++

	switch {
	case execRes.Action == engine.ActionBuy:
		res.Trades = append(res.Trades, Trade{
			Symbol:     res.Symbol,
			EntryTime:  execRes.Timestamp,
			EntryPrice: execRes.FillPrice,
			Quantity:   execRes.Quantity,
			Commission: execRes.Commission,
		})
		return len(res.Trades) - 1

	case execRes.Action.IsClose() && openTrade >= 0:
		t := &res.Trades[openTrade]
		t.ExitTime = execRes.Timestamp
		t.ExitPrice = execRes.FillPrice
		t.Commission += execRes.Commission
		t.PnL = execRes.PnL
		t.PnLPct = execRes.PnLPct
		t.ExitReason = execRes.Reason.Code
		t.Closed = true

		switch execRes.Action {
		case engine.ActionCloseStopLoss:
			res.Exits.StopLoss++
		case engine.ActionCloseTakeProfit:
			res.Exits.TakeProfit++
		case engine.ActionCloseTrailing:
			res.Exits.Trailing++
		default:
			res.Exits.Signal++
		}
		return -1
	}
	return openTrade
}

// forceClose liquidates a position left open after the final candle so the
// result reflects realized capital only.
func (r *Runner) forceClose(res *Result, adapter engine.ExecutionAdapter, symbol string, openTrade int) error {
	botCtx, err := adapter.Context(symbol)
	if err != nil {
		return err
	}
	if botCtx.Position == nil {
		return nil
	}

	execRes, err := adapter.Execute(symbol, engine.TradingDecision{
		Action: engine.ActionSell,
		Reason: types.NewReason(types.ReasonEndOfData, "closing open position at end of data"),
	})
	if err != nil {
		return err
	}
	if !execRes.Success {
		return fmt.Errorf("failed to close position at end of data: %s", execRes.Error)
	}

	res.ForcedExit = true
	r.log.Trade("forced exit at end of data: price %.4f, P/L %.2f", execRes.FillPrice, execRes.PnL)

	if openTrade >= 0 {
		t := &res.Trades[openTrade]
		t.ExitTime = execRes.Timestamp
		t.ExitPrice = execRes.FillPrice
		t.Commission += execRes.Commission
		t.PnL = execRes.PnL
		t.PnLPct = execRes.PnLPct
		t.ExitReason = execRes.Reason.Code
		t.ForcedExit = true
		t.Closed = true
		res.TotalOperations++
	}
	return nil
}
