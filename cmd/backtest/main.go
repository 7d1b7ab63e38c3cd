package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/heliosquant/helios/internal/backtest"
	"github.com/heliosquant/helios/internal/config"
	"github.com/heliosquant/helios/internal/exchange"
	"github.com/heliosquant/helios/internal/logger"
	"github.com/heliosquant/helios/pkg/data"
	"github.com/heliosquant/helios/pkg/reporting"
	"github.com/heliosquant/helios/pkg/types"
)

const (
	appName    = "Helios Backtest"
	appVersion = "1.0.0"

	defaultInitialBalance = 1000.0
	defaultInterval       = "1h"
	defaultLimit          = 1000
)

type flags struct {
	dataFile       string
	symbol         string
	interval       string
	configFile     string
	envFile        string
	initialBalance float64
	limit          int
	useBybit       bool
	testnet        bool
	excelOut       string
	logDir         string
	showVersion    bool
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.dataFile, "data", "", "CSV file with historical candles")
	flag.StringVar(&f.symbol, "symbol", "BTCUSDT", "trading pair symbol")
	flag.StringVar(&f.interval, "interval", defaultInterval, "candle interval (5m, 15m, 1h, 4h, 1d)")
	flag.StringVar(&f.configFile, "config", "", "JSON settings file (defaults apply when omitted)")
	flag.StringVar(&f.envFile, "env", ".env", "environment file")
	flag.Float64Var(&f.initialBalance, "balance", defaultInitialBalance, "initial balance")
	flag.IntVar(&f.limit, "limit", defaultLimit, "candles to fetch when using -bybit")
	flag.BoolVar(&f.useBybit, "bybit", false, "fetch candles from Bybit instead of a CSV file")
	flag.BoolVar(&f.testnet, "testnet", false, "use the Bybit testnet")
	flag.StringVar(&f.excelOut, "excel", "", "write an Excel report to this path")
	flag.StringVar(&f.logDir, "log-dir", "", "write a session log to this directory")
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

	settings := config.DefaultBotSettings()
	if f.configFile != "" {
		settings, err = config.LoadFile(f.configFile)
		if err != nil {
			log.Fatalf("❌ Configuration error: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	candles, err := loadCandles(ctx, f, interval)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}
	fmt.Printf("📊 Loaded %d candles for %s %s\n", len(candles), f.symbol, f.interval)

	sessionLog := logger.Nop()
	if f.logDir != "" {
		sessionLog, err = logger.New(f.logDir, f.symbol, f.interval)
		if err != nil {
			log.Fatalf("❌ Logger error: %v", err)
		}
		defer sessionLog.Close()
	}

	runner := backtest.NewRunner(sessionLog)
	started := time.Now()
	result, err := runner.Run(ctx, candles, backtest.Config{
		Symbol:         f.symbol,
		Interval:       f.interval,
		InitialBalance: f.initialBalance,
	}, settings)
	if err != nil {
		log.Fatalf("❌ Backtest failed: %v", err)
	}
	fmt.Printf("⏱️  Backtest completed in %s\n\n", time.Since(started).Round(time.Millisecond))

	reporting.NewConsoleReporter().Report(result)

	if f.excelOut != "" {
		if err := reporting.NewExcelReporter().Write(result, f.excelOut); err != nil {
			log.Fatalf("❌ Excel report failed: %v", err)
		}
		fmt.Printf("📄 Excel report written to %s\n", f.excelOut)
	}
}

func loadCandles(ctx context.Context, f *flags, interval time.Duration) ([]types.Candle, error) {
	if f.useBybit {
		provider := exchange.NewBybitProvider(exchange.BybitConfig{
			APIKey:    os.Getenv("BYBIT_API_KEY"),
			APISecret: os.Getenv("BYBIT_API_SECRET"),
			Testnet:   f.testnet,
		})
		return provider.GetCandles(ctx, f.symbol, interval, f.limit)
	}
	if f.dataFile == "" {
		return nil, fmt.Errorf("either -data or -bybit is required")
	}
	return data.NewCSVProvider(interval).Load(f.dataFile)
}

func parseInterval(s string) (time.Duration, error) {
	units := map[byte]time.Duration{'m': time.Minute, 'h': time.Hour, 'd': 24 * time.Hour, 'w': 7 * 24 * time.Hour}
	s = strings.ToLower(strings.TrimSpace(s))
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
