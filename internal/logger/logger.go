package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes one trading session's activity to a per-symbol log file.
type Logger struct {
	symbol   string
	interval string
	file     *os.File
	out      *log.Logger
	mu       sync.Mutex
}

// Level tags a log entry by what kind of event it records.
type Level string

const (
	LevelInfo   Level = "INFO"
	LevelWarn   Level = "WARN"
	LevelError  Level = "ERROR"
	LevelTrade  Level = "TRADE"
	LevelRisk   Level = "RISK"
	LevelStatus Level = "STATUS"
)

// New creates a session logger writing to <dir>/<symbol>_<interval>_<date>.log.
func New(dir, symbol, interval string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s_%s.log", symbol, interval, time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		symbol:   symbol,
		interval: interval,
		file:     file,
		out:      log.New(file, "", 0),
	}
	l.writeSessionHeader()
	return l, nil
}

// Nop returns a logger that discards everything. Useful for backtests and
// tests where file output is noise.
func Nop() *Logger {
	return &Logger{out: log.New(io.Discard, "", 0)}
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.out.Printf(`
================================================================================
🚀 TRADING SESSION STARTED
================================================================================
Symbol: %s | Interval: %s
Started: %s
================================================================================
`, l.symbol, l.interval, time.Now().Format("2006-01-02 15:04:05"))
}

// Log writes one entry with the given level tag.
func (l *Logger) Log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	l.out.Printf("[%s] [%s] %s", time.Now().Format("2006-01-02 15:04:05"), level, message)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LevelInfo, format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.Log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LevelError, format, args...)
}

// Trade logs an executed trading action.
func (l *Logger) Trade(format string, args ...interface{}) {
	l.Log(LevelTrade, format, args...)
}

// Risk logs a risk-management event (trigger fired, breakeven armed).
func (l *Logger) Risk(format string, args ...interface{}) {
	l.Log(LevelRisk, format, args...)
}

// LogExecution logs the outcome of one execution attempt.
func (l *Logger) LogExecution(action string, price, quantity, balance, equity float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.out.Printf(`
[%s] [TRADE] ==================== %s EXECUTED ====================
💰 Price: $%.4f | Quantity: %.6f %s
💼 Balance: $%.2f | Equity: $%.2f
=============================================================`,
		time.Now().Format("2006-01-02 15:04:05"), action, price, quantity, l.symbol, balance, equity)
}

// LogError logs an error with a short context label.
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
