package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/heliosquant/helios/pkg/types"
)

// ErrNotChronological indicates candle timestamps that go backwards or
// repeat; a replay over such data would be meaningless.
var ErrNotChronological = errors.New("candles are not in chronological order")

// ColumnMapping describes where each candle field lives in a CSV row.
type ColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string // Go reference layout; empty means Unix milliseconds
}

// DefaultFormat matches the common exchange export layout:
// timestamp(ms),open,high,low,close,volume.
var DefaultFormat = ColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
}

// CSVProvider loads candle history from CSV files.
type CSVProvider struct {
	format   ColumnMapping
	interval time.Duration
}

// NewCSVProvider returns a provider using the default column layout.
// interval sets each candle's close time relative to its open time.
func NewCSVProvider(interval time.Duration) *CSVProvider {
	return NewCSVProviderWithFormat(DefaultFormat, interval)
}

// NewCSVProviderWithFormat returns a provider with a custom column layout.
func NewCSVProviderWithFormat(format ColumnMapping, interval time.Duration) *CSVProvider {
	return &CSVProvider{format: format, interval: interval}
}

func (p *CSVProvider) Name() string { return "csv" }

// Load reads every candle from the file. Rows that fail to parse are
// skipped; out-of-order timestamps fail the whole load since the replay
// contract requires chronological data.
func (p *CSVProvider) Load(source string) ([]types.Candle, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Header row.
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var candles []types.Candle
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line+1, err)
		}
		line++

		candle, ok := p.parseRow(record)
		if !ok {
			continue
		}
		if n := len(candles); n > 0 && !candle.OpenTime.After(candles[n-1].OpenTime) {
			return nil, fmt.Errorf("line %d: %w", line, ErrNotChronological)
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("no usable candles in %s", source)
	}
	return candles, nil
}

func (p *CSVProvider) parseRow(record []string) (types.Candle, bool) {
	f := p.format
	if len(record) < f.MinColumns {
		return types.Candle{}, false
	}

	openTime, err := p.parseTimestamp(record[f.TimestampCol])
	if err != nil {
		return types.Candle{}, false
	}

	fields := [5]float64{}
	for i, col := range [5]int{f.OpenCol, f.HighCol, f.LowCol, f.CloseCol, f.VolumeCol} {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return types.Candle{}, false
		}
		fields[i] = v
	}

	return types.Candle{
		OpenTime:  openTime,
		CloseTime: openTime.Add(p.interval),
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, true
}

func (p *CSVProvider) parseTimestamp(raw string) (time.Time, error) {
	if p.format.DateFormat != "" {
		return time.Parse(p.format.DateFormat, raw)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
