package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// DataGenerator generates synthetic tick series for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how ticks are generated.
type GeneratorConfig struct {
	// StartTime is the time of the first tick
	StartTime time.Time
	// Interval is the duration between ticks
	Interval time.Duration
	// Count is the number of ticks to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per tick)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// IndicatorMean is the level the indicator reverts to
	IndicatorMean float64
	// IndicatorNoise is the standard deviation of indicator shocks
	IndicatorNoise float64
	// IndicatorReversion is the pull toward IndicatorMean per tick (0.0 to 1.0)
	IndicatorReversion float64
}

// DefaultConfig returns a daily series of one year.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:           24 * time.Hour,
		Count:              365,
		InitialPrice:       100.0,
		Volatility:         0.02,
		Trend:              0.0,
		IndicatorMean:      1.0,
		IndicatorNoise:     0.1,
		IndicatorReversion: 0.1,
	}
}

// Generate creates ticks based on the configuration. Prices follow a
// geometric Brownian motion and the indicator an Ornstein-Uhlenbeck walk.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Tick {
	ticks := make([]types.Tick, config.Count)
	price := config.InitialPrice
	indicator := config.IndicatorMean
	currentTime := config.StartTime

	drift := 0.0
	if config.Count > 0 {
		drift = config.Trend / float64(config.Count)
	}

	for i := 0; i < config.Count; i++ {
		ticks[i] = types.Tick{
			Time:      currentTime,
			Indicator: roundToDecimals(indicator, 6),
			Price:     roundToDecimals(price, 4),
		}

		next := price * (1 + config.Volatility*g.normal() + drift)
		if next <= 0 {
			next = price * 0.99
		}

		price = next
		indicator += config.IndicatorReversion*(config.IndicatorMean-indicator) + config.IndicatorNoise*g.normal()
		currentTime = currentTime.Add(config.Interval)
	}

	return ticks
}

// GenerateMultiSeries generates one series per dataset id on a shared
// time grid with slightly varied price and volatility.
func (g *DataGenerator) GenerateMultiSeries(datasetIDs []string, baseConfig GeneratorConfig) map[string][]types.Tick {
	out := make(map[string][]types.Tick, len(datasetIDs))

	for _, id := range datasetIDs {
		config := baseConfig
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)
		out[id] = g.Generate(config)
	}

	return out
}

// Generate10K is a convenience function to generate 10,000 hourly ticks
// with default settings for benchmarking.
func Generate10K() []types.Tick {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Interval = time.Hour
	config.Count = 10000

	return gen.Generate(config)
}

// normal draws from a standard normal using the Box-Muller transform.
func (g *DataGenerator) normal() float64 {
	u1 := g.rng.Float64()
	for u1 == 0 {
		u1 = g.rng.Float64()
	}

	u2 := g.rng.Float64()

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
