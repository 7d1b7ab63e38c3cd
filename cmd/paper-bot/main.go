package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/engine"
	"github.com/heliosquant/helios/internal/exchange"
	"github.com/heliosquant/helios/internal/logger"
	"github.com/heliosquant/helios/internal/monitoring"
	"github.com/heliosquant/helios/internal/settings"
	"github.com/heliosquant/helios/internal/strategy"
)

const (
	appName    = "Helios Paper Bot"
	appVersion = "1.0.0"

	candleFetchLimit = 400
)

type flags struct {
	symbol         string
	interval       string
	configFile     string
	envFile        string
	initialBalance float64
	testnet        bool
	redisAddr      string
	metricsAddr    string
	logDir         string
	showVersion    bool
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.symbol, "symbol", "BTCUSDT", "trading pair symbol")
	flag.StringVar(&f.interval, "interval", "5m", "candle interval (5m, 15m, 1h, 4h, 1d)")
	flag.StringVar(&f.configFile, "config", "", "JSON settings file (defaults apply when omitted)")
	flag.StringVar(&f.envFile, "env", ".env", "environment file")
	flag.Float64Var(&f.initialBalance, "balance", 1000, "paper trading balance")
	flag.BoolVar(&f.testnet, "testnet", false, "use the Bybit testnet")
	flag.StringVar(&f.redisAddr, "redis", "", "Redis address for the settings cache (empty disables)")
	flag.StringVar(&f.metricsAddr, "metrics", ":9090", "Prometheus metrics listen address (empty disables)")
	flag.StringVar(&f.logDir, "log-dir", "logs", "session log directory")
	flag.BoolVar(&f.showVersion, "version", false, "print version and exit")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	if f.showVersion {
		fmt.Printf("%s v%s\n", appName, appVersion)
		return
	}

	if err := godotenv.Load(f.envFile); err != nil && f.envFile != ".env" {
		log.Fatalf("❌ Failed to load environment file %s: %v", f.envFile, err)
	}

	interval, err := parseInterval(f.interval)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	bundle := config.DefaultBotSettings()
	if f.configFile != "" {
		bundle, err = config.LoadFile(f.configFile)
		if err != nil {
			log.Fatalf("❌ Configuration error: %v", err)
		}
	}
	if errs := engine.ValidateConfiguration(bundle); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("❌ %v", e)
		}
		os.Exit(1)
	}

	var provider settings.Provider = settings.NewMemoryStore(bundle)
	if f.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: f.redisAddr})
		provider = settings.NewRedisCache(provider, rdb, 0)
	}

	sessionLog, err := logger.New(f.logDir, f.symbol, f.interval)
	if err != nil {
		log.Fatalf("❌ Logger error: %v", err)
	}
	defer sessionLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.metricsAddr != "" {
		go serveMetrics(f.metricsAddr, sessionLog)
	}

	market := exchange.NewBybitProvider(exchange.BybitConfig{
		APIKey:    os.Getenv("BYBIT_API_KEY"),
		APISecret: os.Getenv("BYBIT_API_SECRET"),
		Testnet:   f.testnet,
	})

	adapter := engine.NewBacktestAdapter(bundle)
	if err := adapter.Initialize(f.symbol, f.initialBalance); err != nil {
		log.Fatalf("❌ Adapter error: %v", err)
	}

	bot := &paperBot{
		symbol:   f.symbol,
		interval: interval,
		market:   market,
		settings: provider,
		adapter:  adapter,
		engine:   engine.New(sessionLog),
		log:      sessionLog,
	}

	fmt.Printf("🚀 %s v%s started: %s %s, balance $%.2f\n", appName, appVersion, f.symbol, f.interval, f.initialBalance)
	if err := bot.run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("❌ Bot stopped: %v", err)
	}
	fmt.Println("👋 Shutting down")
}

type paperBot struct {
	symbol   string
	interval time.Duration
	market   exchange.MarketDataProvider
	settings settings.Provider
	adapter  *engine.BacktestAdapter
	engine   *engine.TradingEngine
	log      *logger.Logger
}

// run evaluates the newest candle once per interval until ctx is done.
func (b *paperBot) run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.step(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.step(ctx)
		}
	}
}

// step fetches fresh history and settings and processes the latest candle.
// Transient failures are logged and skipped; the loop keeps running.
func (b *paperBot) step(ctx context.Context) {
	candles, err := b.market.GetCandles(ctx, b.symbol, b.interval, candleFetchLimit)
	if err != nil {
		b.log.LogError("failed to fetch candles", err)
		monitoring.RecordError("market_data")
		return
	}

	// Pick up settings changes between candles without restarting.
	if bundle, err := settings.Load(ctx, b.settings); err != nil {
		b.log.LogError("failed to load settings", err)
		monitoring.RecordError("settings")
	} else {
		b.adapter.SetSettings(bundle)
	}

	res, err := b.engine.ProcessCandle(b.symbol, candles, b.adapter)
	if err != nil {
		b.log.LogError("failed to process candle", err)
		monitoring.RecordError("engine")
		return
	}

	last := candles[len(candles)-1]
	monitoring.RecordCandle(b.symbol, last.Close)
	monitoring.UpdateEquity(b.symbol, res.Equity)
	if res.Action != engine.ActionHold {
		monitoring.RecordDecision(b.symbol, string(res.Action))
	}
	if botCtx, err := b.adapter.Context(b.symbol); err == nil {
		regime := strategy.DetectRegime(candles, botCtx.Settings.TrendDetection)
		monitoring.UpdateRegime(b.symbol, string(regime.Type), regime.Strength)
	}
}

func serveMetrics(addr string, sessionLog *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		sessionLog.LogError("metrics server stopped", err)
	}
}

func parseInterval(s string) (time.Duration, error) {
	units := map[byte]time.Duration{'m': time.Minute, 'h': time.Hour, 'd': 24 * time.Hour}
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	unit, ok := units[s[len(s)-1]]
	if !ok {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	var n int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	return time.Duration(n) * unit, nil
}
