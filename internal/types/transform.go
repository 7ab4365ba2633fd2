package types

import (
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// TransformKind names a smoothing transform.
type TransformKind string

const (
	TransformNone   TransformKind = "none"
	TransformSMA    TransformKind = "sma"
	TransformEMA    TransformKind = "ema"
	TransformMedian TransformKind = "median"
)

// MaxTransformPeriod bounds every window length accepted by the engine.
const MaxTransformPeriod = 1000

// AllTransformKinds lists the accepted kinds for schema enums.
var AllTransformKinds = []any{
	TransformNone,
	TransformSMA,
	TransformEMA,
	TransformMedian,
}

// TransformConfig describes how a channel is smoothed before it reaches the
// signal generator. An empty kind is treated as none.
type TransformConfig struct {
	Kind   TransformKind `yaml:"kind" json:"kind" validate:"omitempty,oneof=none sma ema median"`
	Period int           `yaml:"period" json:"period" jsonschema:"minimum=1,maximum=1000" validate:"gte=0,lte=1000"`
}

// NoTransform is the identity transform.
func NoTransform() TransformConfig {
	return TransformConfig{Kind: TransformNone, Period: 1}
}

// IsIdentity reports whether the transform leaves values unchanged.
func (c TransformConfig) IsIdentity() bool {
	return c.Kind == "" || c.Kind == TransformNone
}

// Validate checks the kind and, for non-identity transforms, the window length.
func (c TransformConfig) Validate() error {
	switch c.Kind {
	case "", TransformNone:
		return nil
	case TransformSMA, TransformEMA, TransformMedian:
	default:
		return errors.Newf(errors.ErrCodeInvalidTransform, "unknown transform kind %q", c.Kind)
	}

	if c.Period < 1 || c.Period > MaxTransformPeriod {
		return errors.Newf(errors.ErrCodeInvalidTransform, "%s period must be in [1, %d], got %d", c.Kind, MaxTransformPeriod, c.Period)
	}

	return nil
}
