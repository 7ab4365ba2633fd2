package indicator

import (
	"sync"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Transformer smooths a series. Implementations are stateless.
type Transformer interface {
	// Name returns the transform kind.
	Name() types.TransformKind
	// Apply returns a new series of the same length.
	Apply(values []float64, period int) []float64
}

type transformFunc struct {
	kind types.TransformKind
	fn   func(values []float64, period int) []float64
}

func (t transformFunc) Name() types.TransformKind {
	return t.kind
}

func (t transformFunc) Apply(values []float64, period int) []float64 {
	return t.fn(values, period)
}

// NewTransformer wraps a function as a Transformer.
func NewTransformer(kind types.TransformKind, fn func(values []float64, period int) []float64) Transformer {
	return transformFunc{kind: kind, fn: fn}
}

// TransformRegistry manages the available transforms.
type TransformRegistry interface {
	RegisterTransform(transformer Transformer) error
	GetTransform(kind types.TransformKind) (Transformer, error)
	ListTransforms() []types.TransformKind
	RemoveTransform(kind types.TransformKind) error
}

// TransformRegistryV1 is a concurrency-safe TransformRegistry.
type TransformRegistryV1 struct {
	transforms map[types.TransformKind]Transformer
	mu         sync.RWMutex
}

// NewTransformRegistry creates an empty registry.
func NewTransformRegistry() TransformRegistry {
	return &TransformRegistryV1{
		transforms: make(map[types.TransformKind]Transformer),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultTransformRegistry creates a registry holding none, sma, ema and median.
func NewDefaultTransformRegistry() TransformRegistry {
	registry := NewTransformRegistry()

	for _, t := range []Transformer{
		NewTransformer(types.TransformNone, func(values []float64, _ int) []float64 { return Identity(values) }),
		NewTransformer(types.TransformSMA, SMA),
		NewTransformer(types.TransformEMA, EMA),
		NewTransformer(types.TransformMedian, RollingMedian),
	} {
		// kinds are distinct, registration cannot fail
		_ = registry.RegisterTransform(t)
	}

	return registry
}

// RegisterTransform adds a transform to the registry.
func (r *TransformRegistryV1) RegisterTransform(transformer Transformer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := transformer.Name()
	if _, exists := r.transforms[kind]; exists {
		return errors.Newf(errors.ErrCodeInvalidTransform, "transform %s already registered", kind)
	}

	r.transforms[kind] = transformer

	return nil
}

// GetTransform retrieves a transform by kind.
func (r *TransformRegistryV1) GetTransform(kind types.TransformKind) (Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transformer, exists := r.transforms[kind]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeInvalidTransform, "transform %s not found", kind)
	}

	return transformer, nil
}

// ListTransforms returns the registered kinds.
func (r *TransformRegistryV1) ListTransforms() []types.TransformKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]types.TransformKind, 0, len(r.transforms))
	for kind := range r.transforms {
		kinds = append(kinds, kind)
	}

	return kinds
}

// RemoveTransform removes a transform from the registry.
func (r *TransformRegistryV1) RemoveTransform(kind types.TransformKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transforms[kind]; !exists {
		return errors.Newf(errors.ErrCodeInvalidTransform, "transform %s not found", kind)
	}

	delete(r.transforms, kind)

	return nil
}

// Apply runs the transform described by config over values.
func Apply(registry TransformRegistry, values []float64, config types.TransformConfig) ([]float64, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	kind := config.Kind
	if config.IsIdentity() {
		kind = types.TransformNone
	}

	transformer, err := registry.GetTransform(kind)
	if err != nil {
		return nil, err
	}

	return transformer.Apply(values, config.Period), nil
}

// MovingAverage computes the crossover average of the given kind. Strict
// windows yield NaN until period values are available.
func MovingAverage(values []float64, kind types.MovingAverageKind, period int, strict bool) []float64 {
	if kind == types.MovingAverageEMA {
		return AdjustedEMA(values, period)
	}

	if strict {
		return StrictSMA(values, period)
	}

	return SMA(values, period)
}
