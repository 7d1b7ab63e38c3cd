package indicators

// MACDPoint is one computed MACD value: the MACD line, its signal line and
// the histogram (line minus signal).
type MACDPoint struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MACD computes a MACD series from close prices. Points start once both the
// slow EMA and the signal EMA have warmed up, so the output is
// len(values)-slowPeriod-signalPeriod+2 long; the last point corresponds to
// the last input value. Returns nil when there is not enough data.
func MACD(values []float64, fastPeriod, slowPeriod, signalPeriod int) []MACDPoint {
	if fastPeriod <= 0 || slowPeriod <= fastPeriod || signalPeriod <= 0 {
		return nil
	}
	if len(values) < slowPeriod+signalPeriod-1 {
		return nil
	}

	fastEMA := EMA(values, fastPeriod)
	slowEMA := EMA(values, slowPeriod)

	// Both EMA series end at the last input value; align them from the tail.
	offset := len(fastEMA) - len(slowEMA)
	macdLine := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macdLine[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signalPeriod)
	if signalLine == nil {
		return nil
	}

	macdOffset := len(macdLine) - len(signalLine)
	out := make([]MACDPoint, len(signalLine))
	for i := range signalLine {
		line := macdLine[i+macdOffset]
		out[i] = MACDPoint{
			MACD:      line,
			Signal:    signalLine[i],
			Histogram: line - signalLine[i],
		}
	}
	return out
}
