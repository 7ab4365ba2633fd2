// Package strategy turns smoothed series into entry and exit flags.
//
// Every generator only reads values at or before the bar it emits a flag for,
// except the take-profit and stop-loss pass which scans forward from an entry
// using prices that are themselves at or before the flagged bar.
package strategy

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Frame is the bar-aligned input of a generator. Series is the channel the
// strategy reads, Second is the second series of a multi-series crossover
// and Prices is the raw price used by take-profit and stop-loss checks.
type Frame struct {
	Times  []time.Time
	Series []float64
	Second []float64
	Prices []float64
}

// Len returns the number of bars.
func (f Frame) Len() int {
	return len(f.Series)
}

// Generate dispatches on the strategy type and returns resolved signals of
// the frame's length.
func Generate(frame Frame, config types.StrategyConfig) (types.SignalSeries, error) {
	if err := config.Validate(); err != nil {
		return types.SignalSeries{}, err
	}

	var signals types.SignalSeries

	switch config.Type {
	case types.StrategyTypeThreshold:
		signals = Threshold(frame.Series, *config.Threshold)
	case types.StrategyTypeCrossover:
		signals = Crossover(frame.Series, *config.Crossover)
	case types.StrategyTypeMultiSeriesCrossover:
		if len(frame.Second) != len(frame.Series) {
			return types.SignalSeries{}, errors.Newf(errors.ErrCodeLengthMismatch,
				"multi-series crossover needs aligned series, got %d and %d bars", len(frame.Series), len(frame.Second))
		}

		signals = MultiSeriesCrossover(frame.Series, frame.Second, frame.Prices, *config.MultiSeriesCrossover)
	default:
		return types.SignalSeries{}, errors.Newf(errors.ErrCodeInvalidStrategyConfig, "unknown strategy type %q", config.Type)
	}

	return signals.Resolve(), nil
}
