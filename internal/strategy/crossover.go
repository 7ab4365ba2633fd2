package strategy

import (
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Crossover flags fast/slow moving-average crossings of a single series.
// Simple averages use a partial window at the start.
func Crossover(series []float64, config types.CrossoverStrategy) types.SignalSeries {
	entryFast := indicator.MovingAverage(series, config.EntryKind, config.EntryFastPeriod, false)
	entrySlow := indicator.MovingAverage(series, config.EntryKind, config.EntrySlowPeriod, false)
	exitFast := indicator.MovingAverage(series, config.ExitKind, config.ExitFastPeriod, false)
	exitSlow := indicator.MovingAverage(series, config.ExitKind, config.ExitSlowPeriod, false)

	return types.SignalSeries{
		Entries: Crossings(entryFast, entrySlow, config.EntryDirection),
		Exits:   Crossings(exitFast, exitSlow, config.ExitDirection),
	}
}

// Crossings flags bars where fast crosses slow in the given direction.
// Comparisons involving NaN are false.
func Crossings(fast, slow []float64, direction types.Direction) []bool {
	n := min(len(fast), len(slow))
	out := make([]bool, n)

	for i := 1; i < n; i++ {
		if direction == types.DirectionDown {
			out[i] = fast[i] < slow[i] && fast[i-1] >= slow[i-1]
		} else {
			out[i] = fast[i] > slow[i] && fast[i-1] <= slow[i-1]
		}
	}

	return out
}
