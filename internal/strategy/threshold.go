package strategy

import "github.com/rxtech-lab/argo-backtest/internal/types"

// Threshold enters when the series crosses up through the entry level and
// exits when it crosses down through the exit level. The first bar has no
// predecessor and never fires. NaN on either side of a crossing never fires.
func Threshold(series []float64, config types.ThresholdStrategy) types.SignalSeries {
	signals := types.NewSignalSeries(len(series))

	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		signals.Entries[i] = prev < config.EntryThreshold && cur >= config.EntryThreshold
		signals.Exits[i] = prev > config.ExitThreshold && cur <= config.ExitThreshold
	}

	return signals
}
