package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	candlesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helios_candles_processed_total",
			Help: "Total number of candles evaluated by the engine",
		},
		[]string{"symbol"},
	)

	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helios_decisions_total",
			Help: "Trading decisions produced, by executed action",
		},
		[]string{"symbol", "action"},
	)

	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helios_current_price",
			Help: "Latest observed price per symbol",
		},
		[]string{"symbol"},
	)

	accountEquity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helios_account_equity",
			Help: "Balance plus mark-to-market position value",
		},
		[]string{"symbol"},
	)

	regimeStrength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helios_regime_strength",
			Help: "ADX strength of the last classified regime",
		},
		[]string{"symbol", "regime"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helios_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(candlesProcessed)
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(accountEquity)
	prometheus.MustRegister(regimeStrength)
	prometheus.MustRegister(errorsTotal)
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordCandle counts one evaluated candle and updates the price gauge.
func RecordCandle(symbol string, price float64) {
	candlesProcessed.WithLabelValues(symbol).Inc()
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordDecision counts one executed action.
func RecordDecision(symbol, action string) {
	decisionsTotal.WithLabelValues(symbol, action).Inc()
}

// UpdateEquity updates the equity gauge.
func UpdateEquity(symbol string, equity float64) {
	accountEquity.WithLabelValues(symbol).Set(equity)
}

// UpdateRegime updates the regime strength gauge.
func UpdateRegime(symbol, regime string, strength float64) {
	regimeStrength.WithLabelValues(symbol, regime).Set(strength)
}

// RecordError counts one error by type.
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
