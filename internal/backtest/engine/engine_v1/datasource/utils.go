package datasource

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// millisecondEpochThreshold separates epoch seconds from epoch milliseconds.
const millisecondEpochThreshold = 1e10

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp converts a single raw timestamp cell to UTC. Numbers above
// 1e10 are epoch milliseconds, smaller numbers epoch seconds.
func ParseTimestamp(raw any) (time.Time, error) {
	return new(TimestampParser).Parse(raw)
}

// TimestampParser converts the timestamp column of one dataset. The epoch
// unit is decided by the first numeric cell and then applied to every row,
// so a column is never split between seconds and milliseconds.
type TimestampParser struct {
	decided      bool
	milliseconds bool
}

// Parse converts one cell to UTC.
func (p *TimestampParser) Parse(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case int64:
		return p.fromEpoch(float64(v)), nil
	case int32:
		return p.fromEpoch(float64(v)), nil
	case int:
		return p.fromEpoch(float64(v)), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, fmt.Errorf("non-finite timestamp %v", v)
		}

		return p.fromEpoch(v), nil
	case []byte:
		return p.Parse(string(v))
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return p.Parse(f)
		}

		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), nil
			}
		}

		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", v)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", raw)
	}
}

func (p *TimestampParser) fromEpoch(v float64) time.Time {
	if !p.decided {
		p.milliseconds = v > millisecondEpochThreshold
		p.decided = true
	}

	if p.milliseconds {
		return time.UnixMilli(int64(v)).UTC()
	}

	sec, frac := math.Modf(v)

	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// NormalizeTicks sorts ticks by time, keeps the last tick of each duplicated
// timestamp and validates the result.
func NormalizeTicks(ticks []types.Tick) ([]types.Tick, error) {
	sort.SliceStable(ticks, func(i, j int) bool {
		return ticks[i].Time.Before(ticks[j].Time)
	})

	out := ticks[:0]
	for _, tick := range ticks {
		if n := len(out); n > 0 && out[n-1].Time.Equal(tick.Time) {
			out[n-1] = tick
			continue
		}

		out = append(out, tick)
	}

	if err := types.ValidateTicks(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataParseFailed, "dataset violates tick invariants", err)
	}

	return out, nil
}
