package indicator

import (
	"math"
	"sort"
)

// RollingMean is the trailing mean over window values. Positions with fewer
// than minPeriods non-NaN observations in the window are NaN.
func RollingMean(values []float64, window int, minPeriods int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}

	sum := 0.0
	count := 0

	for i, v := range values {
		if !math.IsNaN(v) {
			sum += v
			count++
		}

		if i >= window {
			if old := values[i-window]; !math.IsNaN(old) {
				sum -= old
				count--
			}
		}

		if count >= minPeriods && count > 0 {
			out[i] = sum / float64(count)
		} else {
			out[i] = math.NaN()
		}
	}

	return out
}

// SMA is the simple moving average with a partial window at the start.
func SMA(values []float64, period int) []float64 {
	return RollingMean(values, period, 1)
}

// StrictSMA is the simple moving average, NaN until a full window is available.
func StrictSMA(values []float64, period int) []float64 {
	return RollingMean(values, period, period)
}

// EMA is the recursive exponential average with alpha 2/(period+1), seeded
// with the first observation. NaN inputs carry the previous value forward.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	alpha := 2.0 / (float64(period) + 1.0)
	prev := math.NaN()

	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = prev
			continue
		case math.IsNaN(prev):
			prev = v
		default:
			prev = alpha*v + (1-alpha)*prev
		}

		out[i] = prev
	}

	return out
}

// AdjustedEMA weights observation i bars back by (1-alpha)^i and normalises
// by the sum of weights seen so far, alpha = 2/(period+1).
func AdjustedEMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	decay := 1 - 2.0/(float64(period)+1.0)
	num := 0.0
	den := 0.0

	for i, v := range values {
		if math.IsNaN(v) {
			num *= decay
			den *= decay
		} else {
			num = v + decay*num
			den = 1 + decay*den
		}

		if den == 0 {
			out[i] = math.NaN()
			continue
		}

		out[i] = num / den
	}

	return out
}

// RollingMedian is the trailing median over period values with a partial
// window at the start. NaN values are ignored.
func RollingMedian(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period < 1 {
		period = 1
	}

	window := make([]float64, 0, period)

	for i := range values {
		window = window[:0]

		for j := max(0, i-period+1); j <= i; j++ {
			if !math.IsNaN(values[j]) {
				window = append(window, values[j])
			}
		}

		out[i] = median(window)
	}

	return out
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sort.Float64s(values)

	if n%2 == 1 {
		return values[n/2]
	}

	return (values[n/2-1] + values[n/2]) / 2
}

// Identity returns a copy of values.
func Identity(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	return out
}
