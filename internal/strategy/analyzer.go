package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/exchange"
)

// SymbolAnalysis is an on-demand market read for one symbol: the classified
// regime, the signal its recommended strategy produces, and the blended
// score for comparison.
type SymbolAnalysis struct {
	Symbol       string       `json:"symbol"`
	CurrentPrice float64      `json:"current_price"`
	Regime       MarketRegime `json:"regime"`
	Signal       TradeSignal  `json:"signal"`
	Blended      TradeSignal  `json:"blended_signal"`
	CandleCount  int          `json:"candle_count"`
	AsOf         time.Time    `json:"as_of"`
}

// AnalyzeSymbol fetches recent market data and runs the full read-only
// analysis pipeline over it. No position state is involved; this is the
// entry point for ad-hoc "what would the bot think right now" queries.
func AnalyzeSymbol(ctx context.Context, provider exchange.MarketDataProvider, symbol string, interval time.Duration, limit int, settings config.BotSettings) (SymbolAnalysis, error) {
	merged := settings.Merged()

	candles, err := provider.GetCandles(ctx, symbol, interval, limit)
	if err != nil {
		return SymbolAnalysis{}, fmt.Errorf("failed to fetch candles for %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return SymbolAnalysis{}, fmt.Errorf("analysis for %s: %w", symbol, exchange.ErrNoData)
	}

	price, err := provider.GetCurrentPrice(ctx, symbol)
	if err != nil {
		return SymbolAnalysis{}, fmt.Errorf("failed to fetch current price for %s: %w", symbol, err)
	}

	regime := DetectRegime(candles, merged.TrendDetection)
	return SymbolAnalysis{
		Symbol:       symbol,
		CurrentPrice: price,
		Regime:       regime,
		Signal:       Generate(symbol, candles, merged.Indicators, regime.Recommended),
		Blended:      Score(symbol, candles, merged.Indicators),
		CandleCount:  len(candles),
		AsOf:         candles[len(candles)-1].CloseTime,
	}, nil
}
