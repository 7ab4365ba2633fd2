package strategy

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// AlignmentReport describes how independent series were lined up.
type AlignmentReport struct {
	Mode types.AlignmentMode
	// Length is the number of aligned bars.
	Length int
	// Dropped is the number of ticks discarded from the first, second and price series.
	Dropped [3]int
	// MismatchedTimestamps counts aligned bars whose three timestamps are not all equal.
	MismatchedTimestamps int
}

// Aligned holds three series of equal length.
type Aligned struct {
	First  []types.Tick
	Second []types.Tick
	Price  []types.Tick
}

// Align lines up three tick series. Ordinal alignment keeps the first
// min(len) ticks of each and pairs them by index, whatever their timestamps.
// Timestamp alignment keeps only timestamps present in all three.
func Align(first, second, price []types.Tick, mode types.AlignmentMode) (Aligned, AlignmentReport) {
	var aligned Aligned

	if mode == types.AlignmentTimestamp {
		aligned = alignByTimestamp(first, second, price)
	} else {
		mode = types.AlignmentOrdinal
		n := min(len(first), len(second), len(price))
		aligned = Aligned{First: first[:n], Second: second[:n], Price: price[:n]}
	}

	report := AlignmentReport{
		Mode:   mode,
		Length: len(aligned.Price),
		Dropped: [3]int{
			len(first) - len(aligned.First),
			len(second) - len(aligned.Second),
			len(price) - len(aligned.Price),
		},
	}

	for i := range aligned.Price {
		t := aligned.Price[i].Time
		if !aligned.First[i].Time.Equal(t) || !aligned.Second[i].Time.Equal(t) {
			report.MismatchedTimestamps++
		}
	}

	return aligned, report
}

// alignByTimestamp walks the three ascending series in lockstep.
func alignByTimestamp(first, second, price []types.Tick) Aligned {
	var out Aligned

	i, j, k := 0, 0, 0
	for i < len(first) && j < len(second) && k < len(price) {
		a, b, c := first[i].Time, second[j].Time, price[k].Time
		if a.Equal(b) && b.Equal(c) {
			out.First = append(out.First, first[i])
			out.Second = append(out.Second, second[j])
			out.Price = append(out.Price, price[k])
			i, j, k = i+1, j+1, k+1

			continue
		}

		latest := maxTime(a, b, c)
		if a.Before(latest) {
			i++
		}

		if b.Before(latest) {
			j++
		}

		if c.Before(latest) {
			k++
		}
	}

	return out
}

func maxTime(times ...time.Time) time.Time {
	latest := times[0]
	for _, t := range times[1:] {
		if t.After(latest) {
			latest = t
		}
	}

	return latest
}

// FrameFromAligned builds a multi-series frame from aligned ticks.
func FrameFromAligned(aligned Aligned, config types.MultiSeriesCrossoverStrategy) Frame {
	return Frame{
		Times:  types.Times(aligned.Price),
		Series: types.Values(aligned.First, config.First.Channel),
		Second: types.Values(aligned.Second, config.Second.Channel),
		Prices: types.Values(aligned.Price, types.ChannelPrice),
	}
}
