package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/heliosquant/helios/pkg/types"
)

var (
	// ErrNoData indicates the venue returned an empty candle set.
	ErrNoData = errors.New("no market data returned")
	// ErrUnsupportedInterval indicates the venue has no mapping for the
	// requested candle interval.
	ErrUnsupportedInterval = errors.New("unsupported candle interval")
)

// MarketDataProvider supplies historical candles and live prices for a
// symbol. Implementations must return candles in chronological order
// (oldest first).
type MarketDataProvider interface {
	// GetCandles returns up to limit candles for the symbol at the given
	// interval, oldest first, ending at the most recent closed candle.
	GetCandles(ctx context.Context, symbol string, interval time.Duration, limit int) ([]types.Candle, error)

	// GetCurrentPrice returns the latest traded price for the symbol.
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
}
