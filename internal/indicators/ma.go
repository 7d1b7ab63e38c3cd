package indicators

// SMA computes a simple moving average series over the input values.
// The output is len(values)-period+1 long; output[i] covers values[i:i+period].
// Returns nil when there is not enough data.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// EMA computes an exponential moving average series over the input values.
// The first output value is the SMA of the first period values; subsequent
// values apply the standard alpha = 2/(period+1) recurrence. The output is
// len(values)-period+1 long. Returns nil when there is not enough data.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	alpha := 2.0 / float64(period+1)

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)

	prev := seed
	for _, v := range values[period:] {
		prev = v*alpha + prev*(1-alpha)
		out = append(out, prev)
	}
	return out
}
