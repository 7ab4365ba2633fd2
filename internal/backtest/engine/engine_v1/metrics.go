package engine

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"gonum.org/v1/gonum/stat"
)

// CalculateMetrics derives the headline statistics of a run. prices is the
// raw price series the simulation traded on. Non-finite values come back as 0.
func CalculateMetrics(simulation Simulation, prices []float64, frequency types.Frequency) types.BacktestResult {
	equity := make([]float64, len(simulation.Equity))
	for i, point := range simulation.Equity {
		equity[i] = point.Equity
	}

	totalReturn := TotalReturn(equity)
	buyAndHold := BuyAndHoldReturn(prices)

	return types.BacktestResult{
		TotalReturn:      finite(totalReturn),
		Sharpe:           finite(SharpeRatio(equity, frequency.BarsPerYear())),
		MaxDrawdown:      finite(MaxDrawdown(equity)),
		TradeCount:       len(simulation.Trades),
		BuyAndHoldReturn: finite(buyAndHold),
		TradesOnlyReturn: finite(TradesOnlyReturn(totalReturn, buyAndHold)),
		Frequency:        frequency,
		Equity:           simulation.Equity,
		Trades:           simulation.Trades,
	}
}

// TotalReturn is the last equity over the first, minus one.
func TotalReturn(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	return equity[len(equity)-1]/equity[0] - 1
}

// SharpeRatio is the mean per-bar simple return over its sample standard
// deviation, annualised by sqrt(barsPerYear). It is 0 when the deviation is 0
// or undefined.
func SharpeRatio(equity []float64, barsPerYear float64) float64 {
	if len(equity) < 3 {
		return 0
	}

	returns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		returns[i-1] = equity[i]/equity[i-1] - 1
	}

	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}

	return mean / std * math.Sqrt(barsPerYear)
}

// MaxDrawdown is the deepest fall from a running peak, as a fraction <= 0.
func MaxDrawdown(equity []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0

	for _, value := range equity {
		peak = math.Max(peak, value)

		if peak > 0 {
			worst = math.Min(worst, (value-peak)/peak)
		}
	}

	return worst
}

// BuyAndHoldReturn is the price change from the first to the last bar.
// Fewer than two bars return 0.
func BuyAndHoldReturn(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	return (prices[len(prices)-1] - prices[0]) / prices[0]
}

// TradesOnlyReturn removes the market move from the strategy return. A total
// loss in the market leaves the strategy return unchanged.
func TradesOnlyReturn(totalReturn float64, buyAndHold float64) float64 {
	if buyAndHold == -1 {
		return totalReturn
	}

	return (1+totalReturn)/(1+buyAndHold) - 1
}

// CalculateTradeStats summarises the closed trades of a result.
func CalculateTradeStats(result types.BacktestResult, initCash float64) types.TradeStats {
	stats := types.TradeStats{NumberOfTrades: len(result.Trades)}

	if len(result.Trades) == 0 {
		if n := len(result.Equity); n > 0 {
			stats.UnrealizedPnL = finite(result.Equity[n-1].Equity - initCash)
		}

		return stats
	}

	stats.MaximumProfit = math.Inf(-1)
	stats.MaximumLoss = math.Inf(1)
	totalDuration := 0

	for _, trade := range result.Trades {
		switch {
		case trade.PnL > 0:
			stats.NumberOfWinningTrades++
		case trade.PnL < 0:
			stats.NumberOfLosingTrades++
		}

		stats.TotalFees += trade.EntryFee + trade.ExitFee
		stats.RealizedPnL += trade.PnL
		stats.MaximumProfit = math.Max(stats.MaximumProfit, trade.PnL)
		stats.MaximumLoss = math.Min(stats.MaximumLoss, trade.PnL)
		totalDuration += trade.DurationInBars
	}

	stats.WinRate = float64(stats.NumberOfWinningTrades) / float64(stats.NumberOfTrades)
	stats.AvgDurationInBars = float64(totalDuration) / float64(stats.NumberOfTrades)

	if n := len(result.Equity); n > 0 {
		stats.UnrealizedPnL = finite(result.Equity[n-1].Equity - initCash - stats.RealizedPnL)
	}

	return stats
}

func finite(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}

	return value
}
