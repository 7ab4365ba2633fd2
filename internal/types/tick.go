package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Channel selects one of the two value channels carried by a tick.
type Channel string

const (
	// ChannelIndicator is the on-chain/indicator metric ("v").
	ChannelIndicator Channel = "indicator"
	// ChannelPrice is the asset price in USD ("usd").
	ChannelPrice Channel = "price"
)

// Tick is one observation of a dataset.
type Tick struct {
	Time      time.Time `yaml:"time" json:"time"`
	Indicator float64   `yaml:"indicator" json:"indicator"`
	Price     float64   `yaml:"price" json:"price"`
}

// Value returns the tick value on the given channel.
func (t Tick) Value(channel Channel) float64 {
	if channel == ChannelPrice {
		return t.Price
	}

	return t.Indicator
}

// ValidateTicks checks that prices are positive and finite and that
// timestamps are strictly ascending.
func ValidateTicks(ticks []Tick) error {
	for i, tick := range ticks {
		if !(tick.Price > 0) || math.IsInf(tick.Price, 0) {
			return errors.Newf(errors.ErrCodeInvalidTickSeries, "tick %d has non-positive price %v", i, tick.Price)
		}

		if i > 0 && !tick.Time.After(ticks[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidTickSeries, "tick %d at %s is not after %s",
				i, tick.Time.Format(time.RFC3339), ticks[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Times returns the timestamps of the ticks.
func Times(ticks []Tick) []time.Time {
	out := make([]time.Time, len(ticks))
	for i, tick := range ticks {
		out[i] = tick.Time
	}

	return out
}

// Values returns one channel of the ticks as a float slice.
func Values(ticks []Tick, channel Channel) []float64 {
	out := make([]float64, len(ticks))
	for i, tick := range ticks {
		out[i] = tick.Value(channel)
	}

	return out
}
