package engine

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// FilterByPeriod keeps the trailing window of ticks named by period,
// measured from the latest tick. Calendar years keep the ticks of that
// year. The result is never empty: a window without ticks is an
// ErrCodeEmptyPeriod error.
func FilterByPeriod(ticks []types.Tick, period types.Period) ([]types.Tick, error) {
	if !period.IsValid() {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "unknown period %q", period)
	}

	filtered := ticks

	switch {
	case period == "" || period == types.PeriodAll:
	case len(ticks) == 0:
	case period == types.PeriodYearToDate:
		latest := ticks[len(ticks)-1].Time
		cutoff := time.Date(latest.Year(), time.January, 1, 0, 0, 0, 0, latest.Location())
		filtered = since(ticks, cutoff)
	default:
		if days, ok := period.LookbackDays(); ok {
			latest := ticks[len(ticks)-1].Time
			filtered = since(ticks, latest.Add(-time.Duration(days)*24*time.Hour))

			break
		}

		year, _ := period.CalendarYear()
		filtered = inYear(ticks, year)
	}

	if len(filtered) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyPeriod, "no ticks in period %q", period)
	}

	return filtered, nil
}

// since returns the suffix of ticks at or after cutoff.
func since(ticks []types.Tick, cutoff time.Time) []types.Tick {
	for i, tick := range ticks {
		if !tick.Time.Before(cutoff) {
			return ticks[i:]
		}
	}

	return nil
}

func inYear(ticks []types.Tick, year int) []types.Tick {
	start, end := -1, -1

	for i, tick := range ticks {
		if tick.Time.Year() != year {
			continue
		}

		if start < 0 {
			start = i
		}

		end = i + 1
	}

	if start < 0 {
		return nil
	}

	return ticks[start:end]
}
