package strategy

import (
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// MultiSeriesCrossover flags crossings of the first series' average over the
// second series' average. Simple averages need a full window. When take-profit
// or stop-loss is enabled, prices are scanned after each entry for an earlier
// exit. Inputs must already be aligned.
func MultiSeriesCrossover(first, second, prices []float64, config types.MultiSeriesCrossoverStrategy) types.SignalSeries {
	n := min(len(first), len(second))
	first, second = first[:n], second[:n]

	firstMA := indicator.MovingAverage(first, config.First.MAKind, config.First.MAPeriod, true)
	secondMA := indicator.MovingAverage(second, config.Second.MAKind, config.Second.MAPeriod, true)

	signals := types.SignalSeries{
		Entries: Crossings(firstMA, secondMA, config.EntryDirection),
		Exits:   Crossings(firstMA, secondMA, config.ExitDirection),
	}

	if config.UseTakeProfit || config.UseStopLoss {
		signals.Exits = ApplyTakeProfitStopLoss(signals, prices, TakeProfitStopLoss{
			TakeProfit:    config.TakeProfitPct / 100,
			StopLoss:      config.StopLossPct / 100,
			UseTakeProfit: config.UseTakeProfit,
			UseStopLoss:   config.UseStopLoss,
		})
	}

	return signals
}
