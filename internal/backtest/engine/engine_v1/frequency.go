package engine

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

const (
	secondsPerDay  = 86400
	secondsPerHour = 3600
	// frequencyTolerance is the relative slack around a day or an hour.
	frequencyTolerance = 0.05
)

// DetectFrequency infers the bar spacing from the most common gap between
// consecutive ticks, preferring the smallest gap on ties. Gaps within 5% of
// a day are daily, everything else is hourly. An override always wins.
func DetectFrequency(ticks []types.Tick, override optional.Option[types.Frequency]) types.Frequency {
	if override.IsSome() {
		return override.Unwrap()
	}

	if len(ticks) < 2 {
		return types.FrequencyHourly
	}

	counts := make(map[float64]int)
	for i := 1; i < len(ticks); i++ {
		counts[ticks[i].Time.Sub(ticks[i-1].Time).Seconds()]++
	}

	mode := math.Inf(1)
	best := 0

	for delta, count := range counts {
		if count > best || (count == best && delta < mode) {
			mode = delta
			best = count
		}
	}

	if within(mode, secondsPerDay) {
		return types.FrequencyDaily
	}

	return types.FrequencyHourly
}

func within(value float64, target float64) bool {
	return value >= target*(1-frequencyTolerance) && value <= target*(1+frequencyTolerance)
}
