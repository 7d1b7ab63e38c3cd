package engine

import (
	"fmt"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/logger"
	"github.com/heliosquant/helios/internal/strategy"
	"github.com/heliosquant/helios/pkg/types"
)

// TradingEngine orchestrates one candle evaluation: price update, risk
// check, regime classification, signal generation, decision conversion, and
// execution, in that fixed order.
type TradingEngine struct {
	log *logger.Logger
}

// New returns an engine logging through log. A nil log disables logging.
func New(log *logger.Logger) *TradingEngine {
	if log == nil {
		log = logger.Nop()
	}
	return &TradingEngine{log: log}
}

// ProcessCandle evaluates the newest candle in the history and executes the
// resulting decision through the adapter. candles must be the full
// chronological history up to and including the candle being evaluated.
//
// Risk management preempts signal-driven trading: any non-HOLD risk decision
// is executed immediately and the signal pipeline is skipped. A panic during
// evaluation downgrades the candle to a failed no-op result so a long run
// can continue; adapter addressing errors (wrong symbol, not initialized)
// are propagated since they indicate a caller bug.
func (e *TradingEngine) ProcessCandle(symbol string, candles []types.Candle, adapter ExecutionAdapter) (res ExecutionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.LogError("candle evaluation panicked", fmt.Errorf("%v", r))
			res = ExecutionResult{
				Action: ActionHold,
				Reason: types.NewReason(types.ReasonEngineFailure, "candle evaluation panicked"),
				Error:  fmt.Sprintf("panic: %v", r),
			}
			if botCtx, ctxErr := adapter.Context(symbol); ctxErr == nil {
				res.Balance = botCtx.Balance
				res.Equity = botCtx.Equity
				res.Timestamp = botCtx.Timestamp
			}
			err = nil
		}
	}()

	if len(candles) == 0 {
		return ExecutionResult{
			Action: ActionHold,
			Reason: types.NewReason(types.ReasonNoData, "no candles supplied for %s", symbol),
			Error:  "empty candle history",
		}, nil
	}

	last := candles[len(candles)-1]
	if _, err := adapter.Context(symbol); err != nil {
		return ExecutionResult{}, err
	}
	if err := adapter.UpdatePrice(symbol, last.Close, last.CloseTime); err != nil {
		return ExecutionResult{}, err
	}

	// Re-fetch after the price update so risk checks see fresh P/L.
	botCtx, err := adapter.Context(symbol)
	if err != nil {
		return ExecutionResult{}, err
	}

	if riskDecision := EvaluateRisk(botCtx); riskDecision.Action != ActionHold {
		e.log.Risk("%s triggered: %s", riskDecision.Action, riskDecision.Reason)
		return e.execute(symbol, adapter, riskDecision)
	}

	settings := botCtx.Settings
	regime := strategy.DetectRegime(candles, settings.TrendDetection)
	signal := strategy.Generate(symbol, candles, settings.Indicators, regime.Recommended)
	decision := ConvertDecision(signal, regime, botCtx)

	return e.execute(symbol, adapter, decision)
}

func (e *TradingEngine) execute(symbol string, adapter ExecutionAdapter, decision TradingDecision) (ExecutionResult, error) {
	res, err := adapter.Execute(symbol, decision)
	if err != nil {
		return ExecutionResult{}, err
	}
	if res.Action != ActionHold {
		e.log.LogExecution(string(res.Action), res.FillPrice, res.Quantity, res.Balance, res.Equity)
	}
	return res, nil
}

// ConvertDecision gates a raw signal into a trading decision using the
// position state and confidence floors. Deterministic and side-effect free;
// the first failing rule wins and produces an annotated HOLD.
func ConvertDecision(signal strategy.TradeSignal, regime strategy.MarketRegime, botCtx *BotContext) TradingDecision {
	trading := botCtx.Settings.Trading.Merged()
	meta := DecisionMetadata{Signal: &signal, Regime: &regime}

	switch {
	case signal.Signal == strategy.SignalBuy && botCtx.Position != nil:
		return TradingDecision{
			Action:   ActionHold,
			Reason:   types.NewReason(types.ReasonPositionAlreadyOpen, "buy signal ignored: position already open"),
			Metadata: meta,
		}
	case signal.Signal == strategy.SignalSell && botCtx.Position == nil:
		return TradingDecision{
			Action:   ActionHold,
			Reason:   types.NewReason(types.ReasonNoPositionToClose, "sell signal ignored: no open position"),
			Metadata: meta,
		}
	case signal.Signal == strategy.SignalBuy && signal.Confidence < trading.MinConfidenceToBuy:
		return TradingDecision{
			Action: ActionHold,
			Reason: types.NewReason(types.ReasonConfidenceBelowMin, "buy confidence %.1f below minimum %.1f",
				signal.Confidence, trading.MinConfidenceToBuy),
			Metadata: meta,
		}
	case signal.Signal == strategy.SignalSell && signal.Confidence < trading.MinConfidenceToSell:
		return TradingDecision{
			Action: ActionHold,
			Reason: types.NewReason(types.ReasonConfidenceBelowMin, "sell confidence %.1f below minimum %.1f",
				signal.Confidence, trading.MinConfidenceToSell),
			Metadata: meta,
		}
	case signal.Signal == strategy.SignalHold:
		return TradingDecision{Action: ActionHold, Reason: signal.Reason, Metadata: meta}
	}

	decision := TradingDecision{
		Confidence: signal.Confidence,
		Reason: types.NewReason(types.ReasonSignalAccepted, "%s in %s regime (strength %.1f): %s",
			signal.Signal, regime.Type, regime.Strength, signal.Reason),
		Metadata: meta,
	}
	if signal.Signal == strategy.SignalBuy {
		decision.Action = ActionBuy
		prices := CalculateRiskPrices(botCtx.Price, trading)
		decision.Metadata.RiskPrices = &prices
	} else {
		decision.Action = ActionSell
	}
	return decision
}

// ValidateConfiguration checks the full settings bundle before a run:
// structural settings constraints plus risk parameter sanity.
func ValidateConfiguration(settings config.BotSettings) []error {
	errs := settings.Validate()
	errs = append(errs, ValidateRiskSettings(settings.Trading)...)
	return errs
}
