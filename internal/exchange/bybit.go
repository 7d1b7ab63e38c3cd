package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/heliosquant/helios/pkg/types"
)

// bybit interval codes by candle duration.
var bybitIntervals = map[time.Duration]string{
	time.Minute:        "1",
	3 * time.Minute:    "3",
	5 * time.Minute:    "5",
	15 * time.Minute:   "15",
	30 * time.Minute:   "30",
	time.Hour:          "60",
	2 * time.Hour:      "120",
	4 * time.Hour:      "240",
	6 * time.Hour:      "360",
	12 * time.Hour:     "720",
	24 * time.Hour:     "D",
	7 * 24 * time.Hour: "W",
}

// BybitConfig configures a Bybit market data client. Market data endpoints
// work without credentials; keys are only needed for account access.
type BybitConfig struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Category  string // "spot", "linear", "inverse"; defaults to "spot"
}

// BybitProvider serves candles and prices from the Bybit v5 market API.
type BybitProvider struct {
	client   *bybit_api.Client
	category string
}

// NewBybitProvider builds a provider against mainnet or testnet.
func NewBybitProvider(cfg BybitConfig) *BybitProvider {
	baseURL := bybit_api.MAINNET
	if cfg.Testnet {
		baseURL = bybit_api.TESTNET
	}
	category := cfg.Category
	if category == "" {
		category = "spot"
	}
	return &BybitProvider{
		client:   bybit_api.NewBybitHttpClient(cfg.APIKey, cfg.APISecret, bybit_api.WithBaseURL(baseURL)),
		category: category,
	}
}

// GetCandles fetches up to limit klines ending at the most recent closed
// candle. Bybit returns newest first; the result is re-sorted oldest first
// to satisfy the provider contract.
func (p *BybitProvider) GetCandles(ctx context.Context, symbol string, interval time.Duration, limit int) ([]types.Candle, error) {
	code, ok := bybitIntervals[interval]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInterval, interval)
	}
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}

	params := map[string]interface{}{
		"category": p.category,
		"symbol":   symbol,
		"interval": code,
		"limit":    limit,
	}
	resp, err := p.client.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch klines for %s: %w", symbol, err)
	}

	candles, err := parseKlines(resp, interval)
	if err != nil {
		return nil, fmt.Errorf("failed to parse klines for %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("klines for %s: %w", symbol, ErrNoData)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].OpenTime.Before(candles[j].OpenTime)
	})
	return candles, nil
}

// GetCurrentPrice returns the last traded price from the ticker endpoint.
func (p *BybitProvider) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	params := map[string]interface{}{
		"category": p.category,
		"symbol":   symbol,
	}
	resp, err := p.client.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch ticker for %s: %w", symbol, err)
	}
	return parseTickerPrice(resp, symbol)
}

func checkServerResponse(resp interface{}) (*bybit_api.ServerResponse, error) {
	serverResp, ok := resp.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("bybit API error: %s (code %d)", serverResp.RetMsg, serverResp.RetCode)
	}
	return serverResp, nil
}

func parseKlines(resp interface{}, interval time.Duration) ([]types.Candle, error) {
	serverResp, err := checkServerResponse(resp)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal kline result: %w", err)
	}

	var result struct {
		Symbol string     `json:"symbol"`
		List   [][]string `json:"list"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	candles := make([]types.Candle, 0, len(result.List))
	for _, item := range result.List {
		// Kline format: [startTime, open, high, low, close, volume, turnover]
		if len(item) < 6 {
			continue
		}
		openTime := time.UnixMilli(parseInt64(item[0]))
		candles = append(candles, types.Candle{
			OpenTime:  openTime,
			CloseTime: openTime.Add(interval),
			Open:      parseFloat64(item[1]),
			High:      parseFloat64(item[2]),
			Low:       parseFloat64(item[3]),
			Close:     parseFloat64(item[4]),
			Volume:    parseFloat64(item[5]),
		})
	}
	return candles, nil
}

func parseTickerPrice(resp interface{}, symbol string) (float64, error) {
	serverResp, err := checkServerResponse(resp)
	if err != nil {
		return 0, err
	}

	raw, err := json.Marshal(serverResp.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal ticker result: %w", err)
	}

	var result struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return 0, fmt.Errorf("failed to unmarshal ticker result: %w", err)
	}
	if len(result.List) == 0 {
		return 0, fmt.Errorf("ticker for %s: %w", symbol, ErrNoData)
	}
	return parseFloat64(result.List[0].LastPrice), nil
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
