package engine

import "errors"

var (
	// ErrSymbolMismatch indicates an adapter was addressed with a symbol it
	// is not bound to. This is a caller bug and is always propagated.
	ErrSymbolMismatch = errors.New("symbol does not match adapter context")

	// ErrNotInitialized indicates the adapter was used before Initialize.
	ErrNotInitialized = errors.New("execution adapter not initialized")

	// ErrInvalidRiskSettings indicates the risk parameter bundle failed
	// validation before a run.
	ErrInvalidRiskSettings = errors.New("invalid risk settings")

	// ErrInsufficientHistory indicates a backtest was asked to run with
	// fewer candles than the indicator warm-up requires.
	ErrInsufficientHistory = errors.New("insufficient candle history for warm-up")
)
