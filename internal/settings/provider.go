package settings

import (
	"context"
	"sync"

	"github.com/heliosquant/helios/internal/config"
)

// Provider supplies the tunable parameter sections the core reads. Absent
// fields in a returned section mean "use the documented default"; every
// implementation returns merged sections so callers never see zeros.
type Provider interface {
	IndicatorSettings(ctx context.Context) (config.IndicatorSettings, error)
	TrendSettings(ctx context.Context) (config.TrendSettings, error)
	TradingSettings(ctx context.Context) (config.TradingSettings, error)
}

// Load assembles a full settings bundle from a provider.
func Load(ctx context.Context, p Provider) (config.BotSettings, error) {
	indicators, err := p.IndicatorSettings(ctx)
	if err != nil {
		return config.BotSettings{}, err
	}
	trend, err := p.TrendSettings(ctx)
	if err != nil {
		return config.BotSettings{}, err
	}
	trading, err := p.TradingSettings(ctx)
	if err != nil {
		return config.BotSettings{}, err
	}
	return config.BotSettings{
		Indicators:     indicators,
		TrendDetection: trend,
		Trading:        trading,
	}.Merged(), nil
}

// MemoryStore holds one settings bundle in memory. Safe for concurrent use;
// Update swaps the whole bundle atomically.
type MemoryStore struct {
	mu     sync.RWMutex
	bundle config.BotSettings
}

// NewMemoryStore returns a store seeded with the given bundle.
func NewMemoryStore(bundle config.BotSettings) *MemoryStore {
	return &MemoryStore{bundle: bundle.Merged()}
}

// Update replaces the stored bundle.
func (s *MemoryStore) Update(bundle config.BotSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = bundle.Merged()
}

func (s *MemoryStore) IndicatorSettings(context.Context) (config.IndicatorSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.Indicators, nil
}

func (s *MemoryStore) TrendSettings(context.Context) (config.TrendSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.TrendDetection, nil
}

func (s *MemoryStore) TradingSettings(context.Context) (config.TradingSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.Trading, nil
}
