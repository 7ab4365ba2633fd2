package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BacktestParams are the knobs of one run, independent of where the ticks come from.
type BacktestParams struct {
	Period             Period          `yaml:"period" json:"period"`
	IndicatorTransform TransformConfig `yaml:"indicator_transform" json:"indicator_transform"`
	PriceTransform     TransformConfig `yaml:"price_transform" json:"price_transform"`
	// ApplyTo selects the transformed channel the threshold and crossover families read.
	ApplyTo  Channel        `yaml:"apply_to" json:"apply_to" validate:"omitempty,oneof=indicator price"`
	Strategy StrategyConfig `yaml:"strategy" json:"strategy" validate:"-"`
	Fees     float64        `yaml:"fees" json:"fees" validate:"gte=0,lte=0.1"`
	Slippage float64        `yaml:"slippage" json:"slippage" validate:"gte=0,lte=0.1"`
	InitCash float64        `yaml:"init_cash" json:"init_cash" validate:"gt=0"`
	// FrequencyOverride replaces the detected bar frequency when set.
	FrequencyOverride optional.Option[Frequency] `yaml:"-" json:"frequency_override"`
}

// DefaultBacktestParams returns a threshold run over all history with
// 5 bps fees, 2 bps slippage and 10000 of starting cash.
func DefaultBacktestParams() BacktestParams {
	return BacktestParams{
		Period:             PeriodAll,
		IndicatorTransform: NoTransform(),
		PriceTransform:     NoTransform(),
		ApplyTo:            ChannelIndicator,
		Strategy: StrategyConfig{
			Type:      StrategyTypeThreshold,
			Threshold: &ThresholdStrategy{},
		},
		Fees:              0.0005,
		Slippage:          0.0002,
		InitCash:          10000,
		FrequencyOverride: optional.None[Frequency](),
	}
}

// Validate checks every parameter before any computation starts.
func (p BacktestParams) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid backtest parameters", err)
	}

	if !p.Period.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "unknown period %q", p.Period)
	}

	if err := p.IndicatorTransform.Validate(); err != nil {
		return err
	}

	if err := p.PriceTransform.Validate(); err != nil {
		return err
	}

	if p.FrequencyOverride.IsSome() && !p.FrequencyOverride.Unwrap().IsValid() {
		return errors.Newf(errors.ErrCodeInvalidFrequency, "unsupported frequency override %q", p.FrequencyOverride.Unwrap())
	}

	return p.Strategy.Validate()
}

// UnmarshalYAML reads frequency_override as an optional scalar.
func (p *BacktestParams) UnmarshalYAML(value *yaml.Node) error {
	type params BacktestParams

	var raw struct {
		params            `yaml:",inline"`
		FrequencyOverride *Frequency `yaml:"frequency_override"`
	}

	defaults := DefaultBacktestParams()
	raw.params = params(defaults)
	raw.params.Strategy = StrategyConfig{}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.params.Strategy.Type == "" {
		raw.params.Strategy = defaults.Strategy
	}

	*p = BacktestParams(raw.params)
	p.FrequencyOverride = optional.None[Frequency]()
	if raw.FrequencyOverride != nil {
		p.FrequencyOverride = optional.Some(*raw.FrequencyOverride)
	}

	return nil
}

// MarshalYAML writes frequency_override only when it is set.
func (p BacktestParams) MarshalYAML() (any, error) {
	type params BacktestParams

	out := struct {
		params            `yaml:",inline"`
		FrequencyOverride *Frequency `yaml:"frequency_override,omitempty"`
	}{params: params(p)}

	if p.FrequencyOverride.IsSome() {
		freq := p.FrequencyOverride.Unwrap()
		out.FrequencyOverride = &freq
	}

	return out, nil
}

// MultiSeriesTicks are the three independent collections of a multi-series run.
type MultiSeriesTicks struct {
	First  []Tick
	Second []Tick
	Price  []Tick
}

// BacktestInput is a run with the ticks already in hand. Ticks is used by the
// single-dataset families and MultiSeries by the multi-series family.
type BacktestInput struct {
	Params      BacktestParams
	Ticks       []Tick
	MultiSeries *MultiSeriesTicks
}

// BacktestRequest is a run whose ticks are resolved through a data source.
// Multi-series runs take their dataset ids from the strategy payload.
type BacktestRequest struct {
	DatasetID string         `yaml:"dataset_id" json:"dataset_id"`
	Params    BacktestParams `yaml:"params" json:"params"`
}
