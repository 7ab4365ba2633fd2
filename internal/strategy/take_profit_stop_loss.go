package strategy

import "github.com/rxtech-lab/argo-backtest/internal/types"

// TakeProfitStopLoss holds fractional levels (0.03 means 3%).
type TakeProfitStopLoss struct {
	TakeProfit    float64
	StopLoss      float64
	UseTakeProfit bool
	UseStopLoss   bool
}

// ApplyTakeProfitStopLoss returns a copy of the exits with an extra exit at
// the first bar after each entry whose price move from the entry bar reaches
// a level. The scan stops before the next natural exit, searched from the
// entry bar itself. Take-profit is checked before stop-loss on the same bar.
func ApplyTakeProfitStopLoss(signals types.SignalSeries, prices []float64, levels TakeProfitStopLoss) []bool {
	exits := make([]bool, len(signals.Exits))
	copy(exits, signals.Exits)

	for entry, isEntry := range signals.Entries {
		if !isEntry || entry >= len(prices) {
			continue
		}

		end := nextTrue(signals.Exits, entry)
		entryPrice := prices[entry]

		for i := entry + 1; i < end && i < len(prices) && i < len(exits); i++ {
			change := (prices[i] - entryPrice) / entryPrice

			if levels.UseTakeProfit && change >= levels.TakeProfit {
				exits[i] = true
				break
			}

			if levels.UseStopLoss && change <= -levels.StopLoss {
				exits[i] = true
				break
			}
		}
	}

	return exits
}

// nextTrue returns the first index >= from holding true, or len(flags).
func nextTrue(flags []bool, from int) int {
	for i := from; i < len(flags); i++ {
		if flags[i] {
			return i
		}
	}

	return len(flags)
}
