package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// StrategyType selects the signal generator family.
type StrategyType string

const (
	StrategyTypeThreshold            StrategyType = "threshold"
	StrategyTypeCrossover            StrategyType = "crossover"
	StrategyTypeMultiSeriesCrossover StrategyType = "multi_series_crossover"
)

// Direction is the sense of a moving-average crossover.
type Direction string

const (
	// DirectionUp fires when the fast average crosses above the slow one.
	DirectionUp Direction = "up"
	// DirectionDown fires when the fast average crosses below the slow one.
	DirectionDown Direction = "down"
)

// MovingAverageKind is the average used by the crossover families.
type MovingAverageKind string

const (
	MovingAverageSMA MovingAverageKind = "sma"
	MovingAverageEMA MovingAverageKind = "ema"
)

// AlignmentMode controls how independent series are lined up bar by bar.
type AlignmentMode string

const (
	// AlignmentOrdinal truncates every series to the shortest length and pairs by index.
	AlignmentOrdinal AlignmentMode = "ordinal"
	// AlignmentTimestamp keeps only timestamps present in every series.
	AlignmentTimestamp AlignmentMode = "timestamp"
)

// Default take-profit and stop-loss levels, in percent.
const (
	DefaultTakeProfitPct = 3.0
	DefaultStopLossPct   = 1.0
)

// ThresholdStrategy crosses a single series over fixed levels.
type ThresholdStrategy struct {
	EntryThreshold float64 `yaml:"entry_threshold" json:"entry_threshold"`
	ExitThreshold  float64 `yaml:"exit_threshold" json:"exit_threshold"`
}

// CrossoverStrategy crosses fast and slow averages of one series.
// Entry and exit pairs are evaluated independently.
type CrossoverStrategy struct {
	EntryFastPeriod int               `yaml:"entry_fast_period" json:"entry_fast_period" validate:"gte=1,lte=1000"`
	EntrySlowPeriod int               `yaml:"entry_slow_period" json:"entry_slow_period" validate:"gte=1,lte=1000"`
	ExitFastPeriod  int               `yaml:"exit_fast_period" json:"exit_fast_period" validate:"gte=1,lte=1000"`
	ExitSlowPeriod  int               `yaml:"exit_slow_period" json:"exit_slow_period" validate:"gte=1,lte=1000"`
	EntryKind       MovingAverageKind `yaml:"entry_kind" json:"entry_kind" validate:"oneof=sma ema"`
	ExitKind        MovingAverageKind `yaml:"exit_kind" json:"exit_kind" validate:"oneof=sma ema"`
	EntryDirection  Direction         `yaml:"entry_direction" json:"entry_direction" validate:"oneof=up down"`
	ExitDirection   Direction         `yaml:"exit_direction" json:"exit_direction" validate:"oneof=up down"`
}

// DefaultCrossoverStrategy returns 7/30 up entries and 7/14 down exits on simple averages.
func DefaultCrossoverStrategy() CrossoverStrategy {
	return CrossoverStrategy{
		EntryFastPeriod: 7,
		EntrySlowPeriod: 30,
		ExitFastPeriod:  7,
		ExitSlowPeriod:  14,
		EntryKind:       MovingAverageSMA,
		ExitKind:        MovingAverageSMA,
		EntryDirection:  DirectionUp,
		ExitDirection:   DirectionDown,
	}
}

// SeriesSource names a dataset channel and the average computed over it.
type SeriesSource struct {
	DatasetID string            `yaml:"dataset_id" json:"dataset_id"`
	Channel   Channel           `yaml:"channel" json:"channel" validate:"oneof=indicator price"`
	MAKind    MovingAverageKind `yaml:"ma_kind" json:"ma_kind" validate:"oneof=sma ema"`
	MAPeriod  int               `yaml:"ma_period" json:"ma_period" validate:"gte=1,lte=1000"`
}

// MultiSeriesCrossoverStrategy crosses the average of one dataset over the
// average of another while trading a third price series. TakeProfitPct and
// StopLossPct are percentages (3.0 means 3%).
type MultiSeriesCrossoverStrategy struct {
	First          SeriesSource  `yaml:"first" json:"first"`
	Second         SeriesSource  `yaml:"second" json:"second"`
	PriceDatasetID string        `yaml:"price_dataset_id" json:"price_dataset_id"`
	EntryDirection Direction     `yaml:"entry_direction" json:"entry_direction" validate:"oneof=up down"`
	ExitDirection  Direction     `yaml:"exit_direction" json:"exit_direction" validate:"oneof=up down"`
	TakeProfitPct  float64       `yaml:"take_profit_pct" json:"take_profit_pct" validate:"gte=0"`
	StopLossPct    float64       `yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gte=0"`
	UseTakeProfit  bool          `yaml:"use_take_profit" json:"use_take_profit"`
	UseStopLoss    bool          `yaml:"use_stop_loss" json:"use_stop_loss"`
	Alignment      AlignmentMode `yaml:"alignment" json:"alignment" validate:"omitempty,oneof=ordinal timestamp"`
}

// StrategyConfig is a tagged union: Type selects which payload must be set.
type StrategyConfig struct {
	Type                 StrategyType                  `yaml:"type" json:"type"`
	Threshold            *ThresholdStrategy            `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Crossover            *CrossoverStrategy            `yaml:"crossover,omitempty" json:"crossover,omitempty"`
	MultiSeriesCrossover *MultiSeriesCrossoverStrategy `yaml:"multi_series_crossover,omitempty" json:"multi_series_crossover,omitempty"`
}

// Validate checks that the payload matching Type is present and well formed.
func (c StrategyConfig) Validate() error {
	var payload any

	switch c.Type {
	case StrategyTypeThreshold:
		if c.Threshold == nil {
			return errors.New(errors.ErrCodeInvalidStrategyConfig, "threshold strategy requires threshold parameters")
		}

		return nil
	case StrategyTypeCrossover:
		if c.Crossover == nil {
			return errors.New(errors.ErrCodeInvalidStrategyConfig, "crossover strategy requires crossover parameters")
		}

		payload = c.Crossover
	case StrategyTypeMultiSeriesCrossover:
		if c.MultiSeriesCrossover == nil {
			return errors.New(errors.ErrCodeInvalidStrategyConfig, "multi-series crossover strategy requires multi_series_crossover parameters")
		}

		payload = c.MultiSeriesCrossover
	default:
		return errors.Newf(errors.ErrCodeInvalidStrategyConfig, "unknown strategy type %q", c.Type)
	}

	if err := validator.New().Struct(payload); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidStrategyConfig, err, "invalid %s parameters", c.Type)
	}

	return nil
}
