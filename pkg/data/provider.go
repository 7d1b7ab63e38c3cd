package data

import "github.com/heliosquant/helios/pkg/types"

// HistoricalProvider loads a complete candle history from a named source
// (file path, URL) for offline replay.
type HistoricalProvider interface {
	Name() string
	Load(source string) ([]types.Candle, error)
}
