package strategy

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func multiSeriesConfig() types.MultiSeriesCrossoverStrategy {
	return types.MultiSeriesCrossoverStrategy{
		First:          types.SeriesSource{DatasetID: "1", Channel: types.ChannelIndicator, MAKind: types.MovingAverageSMA, MAPeriod: 1},
		Second:         types.SeriesSource{DatasetID: "2", Channel: types.ChannelIndicator, MAKind: types.MovingAverageSMA, MAPeriod: 1},
		PriceDatasetID: "3",
		EntryDirection: types.DirectionUp,
		ExitDirection:  types.DirectionDown,
		TakeProfitPct:  types.DefaultTakeProfitPct,
		StopLossPct:    types.DefaultStopLossPct,
	}
}

func (suite *StrategyTestSuite) TestThreshold() {
	tests := []struct {
		name    string
		series  []float64
		config  types.ThresholdStrategy
		entries []bool
		exits   []bool
	}{
		{
			name:    "rise and fall through the same level",
			series:  []float64{0, 1, 2, 1, 0},
			config:  types.ThresholdStrategy{EntryThreshold: 1, ExitThreshold: 1},
			entries: []bool{false, true, false, false, false},
			exits:   []bool{false, false, false, true, false},
		},
		{
			name:    "first bar never fires",
			series:  []float64{5, 0, 5},
			config:  types.ThresholdStrategy{EntryThreshold: 1, ExitThreshold: 1},
			entries: []bool{false, false, true},
			exits:   []bool{false, true, false},
		},
		{
			name:    "NaN neighbour never fires",
			series:  []float64{0, math.NaN(), 2, 0},
			config:  types.ThresholdStrategy{EntryThreshold: 1, ExitThreshold: 1},
			entries: []bool{false, false, false, false},
			exits:   []bool{false, false, false, true},
		},
		{
			name:    "single bar",
			series:  []float64{3},
			config:  types.ThresholdStrategy{EntryThreshold: 1, ExitThreshold: 1},
			entries: []bool{false},
			exits:   []bool{false},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			signals := Threshold(tc.series, tc.config)
			suite.Equal(tc.entries, signals.Entries)
			suite.Equal(tc.exits, signals.Exits)
		})
	}
}

func (suite *StrategyTestSuite) TestCrossings() {
	fast := []float64{1, 2, 3, 2, 1}
	slow := []float64{2, 2, 2, 2, 2}

	suite.Equal([]bool{false, false, true, false, false}, Crossings(fast, slow, types.DirectionUp))
	suite.Equal([]bool{false, false, false, false, true}, Crossings(fast, slow, types.DirectionDown))
}

func (suite *StrategyTestSuite) TestCrossover() {
	series := []float64{5, 4, 3, 4, 6, 8, 6, 3}
	config := types.CrossoverStrategy{
		EntryFastPeriod: 1,
		EntrySlowPeriod: 3,
		ExitFastPeriod:  1,
		ExitSlowPeriod:  3,
		EntryKind:       types.MovingAverageSMA,
		ExitKind:        types.MovingAverageSMA,
		EntryDirection:  types.DirectionUp,
		ExitDirection:   types.DirectionDown,
	}

	// slow = [5, 4.5, 4, 3.67, 4.33, 6, 6.67, 5.67]
	signals := Crossover(series, config)
	suite.Equal([]bool{false, false, false, true, false, false, false, false}, signals.Entries)
	suite.Equal([]bool{false, true, false, false, false, false, true, false}, signals.Exits)
}

func (suite *StrategyTestSuite) TestMultiSeriesTakeProfit() {
	first := []float64{1, 3, 3, 3, 3}
	second := []float64{2, 2, 2, 2, 2}
	prices := []float64{90, 100, 101, 103, 99}

	config := multiSeriesConfig()
	config.UseTakeProfit = true

	signals := MultiSeriesCrossover(first, second, prices, config)
	suite.Equal([]bool{false, true, false, false, false}, signals.Entries)
	suite.Equal([]bool{false, false, false, true, false}, signals.Exits)
}

func (suite *StrategyTestSuite) TestMultiSeriesStopLoss() {
	first := []float64{1, 3, 3, 3, 3}
	second := []float64{2, 2, 2, 2, 2}
	prices := []float64{90, 100, 99.5, 98, 97}

	config := multiSeriesConfig()
	config.UseStopLoss = true

	signals := MultiSeriesCrossover(first, second, prices, config)
	suite.Equal([]bool{false, false, false, true, false}, signals.Exits)
}

func (suite *StrategyTestSuite) TestMultiSeriesStrictWindow() {
	// a 3-bar average is undefined on the first two bars
	first := []float64{9, 9, 1, 1, 9, 9}
	second := []float64{5, 5, 5, 5, 5, 5}

	config := multiSeriesConfig()
	config.First.MAPeriod = 3

	// first MA = [NaN, NaN, 6.33, 3.67, 3.67, 6.33]
	signals := MultiSeriesCrossover(first, second, []float64{1, 1, 1, 1, 1, 1}, config)
	suite.Equal([]bool{false, false, false, false, false, true}, signals.Entries)
	suite.Equal([]bool{false, false, false, true, false, false}, signals.Exits)
}

func (suite *StrategyTestSuite) TestMultiSeriesTruncatesToShortest() {
	signals := MultiSeriesCrossover([]float64{1, 3, 3, 3}, []float64{2, 2}, []float64{1, 1}, multiSeriesConfig())
	suite.Equal(2, signals.Len())
	suite.Len(signals.Exits, 2)
}

func (suite *StrategyTestSuite) TestTakeProfitStopLoss() {
	tests := []struct {
		name     string
		entries  []bool
		exits    []bool
		prices   []float64
		levels   TakeProfitStopLoss
		expected []bool
	}{
		{
			name:     "take profit checked before stop loss",
			entries:  []bool{true, false, false},
			exits:    []bool{false, false, false},
			prices:   []float64{100, 105, 90},
			levels:   TakeProfitStopLoss{TakeProfit: 0.01, StopLoss: 0.5, UseTakeProfit: true, UseStopLoss: true},
			expected: []bool{false, true, false},
		},
		{
			name:     "both levels crossed on one bar",
			entries:  []bool{true, false},
			exits:    []bool{false, false},
			prices:   []float64{100, 100},
			levels:   TakeProfitStopLoss{TakeProfit: 0, StopLoss: 0, UseTakeProfit: true, UseStopLoss: true},
			expected: []bool{false, true},
		},
		{
			name:     "scan stops before natural exit",
			entries:  []bool{true, false, false, false},
			exits:    []bool{false, false, true, false},
			prices:   []float64{100, 100, 100, 200},
			levels:   TakeProfitStopLoss{TakeProfit: 0.03, UseTakeProfit: true},
			expected: []bool{false, false, true, false},
		},
		{
			name:     "natural exit on entry bar suppresses the scan",
			entries:  []bool{true, false},
			exits:    []bool{true, false},
			prices:   []float64{100, 200},
			levels:   TakeProfitStopLoss{TakeProfit: 0.03, UseTakeProfit: true},
			expected: []bool{true, false},
		},
		{
			name:     "disabled levels do nothing",
			entries:  []bool{true, false},
			exits:    []bool{false, false},
			prices:   []float64{100, 200},
			levels:   TakeProfitStopLoss{TakeProfit: 0.03},
			expected: []bool{false, false},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			signals := types.SignalSeries{Entries: tc.entries, Exits: tc.exits}
			exits := ApplyTakeProfitStopLoss(signals, tc.prices, tc.levels)
			suite.Equal(tc.expected, exits)
		})
	}
}

func (suite *StrategyTestSuite) TestGenerateResolvesEntryOverExit() {
	config := multiSeriesConfig()
	config.ExitDirection = types.DirectionUp

	signals, err := Generate(Frame{
		Series: []float64{1, 3, 3},
		Second: []float64{2, 2, 2},
		Prices: []float64{10, 10, 10},
	}, types.StrategyConfig{Type: types.StrategyTypeMultiSeriesCrossover, MultiSeriesCrossover: &config})
	suite.NoError(err)
	suite.Equal([]bool{false, true, false}, signals.Entries)
	suite.Equal([]bool{false, false, false}, signals.Exits)
}

func (suite *StrategyTestSuite) TestResolve() {
	signals := types.SignalSeries{
		Entries: []bool{true, false, true},
		Exits:   []bool{true, true, false},
	}.Resolve()

	suite.Equal([]bool{true, false, true}, signals.Entries)
	suite.Equal([]bool{false, true, false}, signals.Exits)
}

func (suite *StrategyTestSuite) TestGenerateInvalidConfig() {
	tests := []struct {
		name   string
		config types.StrategyConfig
	}{
		{"unknown type", types.StrategyConfig{Type: "momentum"}},
		{"missing threshold payload", types.StrategyConfig{Type: types.StrategyTypeThreshold}},
		{"missing crossover payload", types.StrategyConfig{Type: types.StrategyTypeCrossover}},
		{"missing multi-series payload", types.StrategyConfig{Type: types.StrategyTypeMultiSeriesCrossover}},
		{"bad crossover period", types.StrategyConfig{Type: types.StrategyTypeCrossover, Crossover: &types.CrossoverStrategy{}}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Generate(Frame{Series: []float64{1, 2}}, tc.config)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidStrategyConfig), "got %v", err)
		})
	}
}

func (suite *StrategyTestSuite) TestGenerateMultiSeriesNeedsAlignedFrame() {
	config := multiSeriesConfig()
	_, err := Generate(Frame{Series: []float64{1, 2, 3}, Second: []float64{1}}, types.StrategyConfig{
		Type:                 types.StrategyTypeMultiSeriesCrossover,
		MultiSeriesCrossover: &config,
	})
	suite.True(errors.HasCode(err, errors.ErrCodeLengthMismatch))
}

func (suite *StrategyTestSuite) TestNoLookahead() {
	series := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3, 2, 3, 8, 4}
	second := []float64{4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 6, 6, 6, 6, 6, 5, 5, 5, 5, 5}
	prices := []float64{100, 101, 99, 102, 104, 103, 99, 98, 105, 106, 104, 103, 107, 110, 101, 100, 99, 102, 104, 108}

	crossover := types.DefaultCrossoverStrategy()
	crossover.EntrySlowPeriod = 5
	crossover.ExitSlowPeriod = 3
	crossover.ExitKind = types.MovingAverageEMA

	multi := multiSeriesConfig()
	multi.First.MAPeriod = 2
	multi.Second.MAKind = types.MovingAverageEMA
	multi.Second.MAPeriod = 3
	multi.UseTakeProfit = true
	multi.UseStopLoss = true

	configs := map[string]types.StrategyConfig{
		"threshold": {Type: types.StrategyTypeThreshold, Threshold: &types.ThresholdStrategy{EntryThreshold: 5, ExitThreshold: 4}},
		"crossover": {Type: types.StrategyTypeCrossover, Crossover: &crossover},
		"multi":     {Type: types.StrategyTypeMultiSeriesCrossover, MultiSeriesCrossover: &multi},
	}

	for name, config := range configs {
		suite.Run(name, func() {
			full, err := Generate(Frame{Series: series, Second: second, Prices: prices}, config)
			suite.Require().NoError(err)

			for k := 1; k <= len(series); k++ {
				prefix, err := Generate(Frame{Series: series[:k], Second: second[:k], Prices: prices[:k]}, config)
				suite.Require().NoError(err)
				suite.Equal(full.Entries[:k], prefix.Entries, "entries at prefix %d", k)
				suite.Equal(full.Exits[:k], prefix.Exits, "exits at prefix %d", k)
			}
		})
	}
}
