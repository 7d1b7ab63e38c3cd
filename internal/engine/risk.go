package engine

import (
	"fmt"
	"math"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/pkg/types"
)

// EvaluateRisk checks an open position against the configured exit
// thresholds. It is a pure function of the context and never mutates it.
//
// Triggers are checked in strict priority order and the first match wins:
// stop loss, take profit, then trailing stop. Breakeven is informational
// only; it annotates the HOLD reason instead of producing a decision.
func EvaluateRisk(botCtx *BotContext) TradingDecision {
	if botCtx.Position == nil {
		return TradingDecision{
			Action: ActionHold,
			Reason: types.NewReason(types.ReasonNoPositionToManage, "no open position to manage"),
		}
	}

	trading := botCtx.Settings.Trading.Merged()
	pos := botCtx.Position
	pnlPct := pos.UnrealizedPnLPct

	slThreshold := -math.Abs(trading.StopLossPercent)
	if pnlPct <= slThreshold {
		trigger := pos.EntryPrice * (1 - math.Abs(trading.StopLossPercent)/100)
		return TradingDecision{
			Action:   ActionCloseStopLoss,
			Reason:   types.NewReason(types.ReasonStopLoss, "unrealized P/L %.2f%% breached stop loss %.2f%%", pnlPct, slThreshold),
			Metadata: DecisionMetadata{TriggerPrice: trigger},
		}
	}

	tpThreshold := math.Abs(trading.TakeProfitPercent)
	if pnlPct >= tpThreshold {
		trigger := pos.EntryPrice * (1 + tpThreshold/100)
		return TradingDecision{
			Action:   ActionCloseTakeProfit,
			Reason:   types.NewReason(types.ReasonTakeProfit, "unrealized P/L %.2f%% reached take profit %.2f%%", pnlPct, tpThreshold),
			Metadata: DecisionMetadata{TriggerPrice: trigger},
		}
	}

	trailingPct := trailingPercent(trading)
	trailingStop := pos.MaxPriceSinceEntry * (1 - trailingPct/100)
	if botCtx.Price <= trailingStop {
		return TradingDecision{
			Action: ActionCloseTrailing,
			Reason: types.NewReason(types.ReasonTrailingStop, "price %.4f fell to trailing stop %.4f (%.2f%% off peak %.4f)",
				botCtx.Price, trailingStop, trailingPct, pos.MaxPriceSinceEntry),
			Metadata: DecisionMetadata{TriggerPrice: trailingStop},
		}
	}

	hold := TradingDecision{
		Action: ActionHold,
		Reason: types.NewReason(types.ReasonRiskWithinLimits, "position within risk limits (P/L %.2f%%)", pnlPct),
	}
	if pnlPct >= trading.BreakevenThreshold {
		hold.Reason = types.NewReason(types.ReasonRiskWithinLimits,
			"position within risk limits (P/L %.2f%%); breakeven armed, live mode would move stop to entry %.4f",
			pnlPct, pos.EntryPrice)
	}
	return hold
}

// trailingPercent resolves the effective trailing distance; an unset
// trailing percentage reuses the stop-loss percentage.
func trailingPercent(trading config.TradingSettings) float64 {
	if trading.TrailingStopPercent > 0 {
		return trading.TrailingStopPercent
	}
	return math.Abs(trading.StopLossPercent)
}

// CalculateRiskPrices produces the prospective exit levels for a position
// opened at entryPrice. Independent of any live context; used for pre-trade
// display and decision metadata.
func CalculateRiskPrices(entryPrice float64, trading config.TradingSettings) RiskPrices {
	merged := trading.Merged()
	sl := entryPrice * (1 - math.Abs(merged.StopLossPercent)/100)
	tp := entryPrice * (1 + math.Abs(merged.TakeProfitPercent)/100)

	prices := RiskPrices{StopLoss: sl, TakeProfit: tp}
	if risk := entryPrice - sl; risk > 0 {
		prices.RiskRewardRatio = (tp - entryPrice) / risk
	}
	return prices
}

// ValidateRiskSettings checks the risk parameter bundle for structural
// problems that would make a run meaningless. Returns every violation found.
func ValidateRiskSettings(trading config.TradingSettings) []error {
	merged := trading.Merged()
	var errs []error

	if merged.StopLossPercent <= 0 {
		errs = append(errs, fmt.Errorf("%w: stop loss percent must be positive, got %.2f",
			ErrInvalidRiskSettings, merged.StopLossPercent))
	}
	if merged.TakeProfitPercent <= 0 {
		errs = append(errs, fmt.Errorf("%w: take profit percent must be positive, got %.2f",
			ErrInvalidRiskSettings, merged.TakeProfitPercent))
	}
	if merged.TakeProfitPercent <= merged.StopLossPercent {
		errs = append(errs, fmt.Errorf("%w: take profit %.2f%% must exceed stop loss %.2f%% (minimum 1:1 reward/risk)",
			ErrInvalidRiskSettings, merged.TakeProfitPercent, merged.StopLossPercent))
	}
	if merged.BreakevenThreshold >= merged.TakeProfitPercent {
		errs = append(errs, fmt.Errorf("%w: breakeven threshold %.2f%% must stay below take profit %.2f%%",
			ErrInvalidRiskSettings, merged.BreakevenThreshold, merged.TakeProfitPercent))
	}
	return errs
}
