package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1 struct {
	config     BacktestEngineV1Config
	log        *logger.Logger
	transforms indicator.TransformRegistry
	datasource datasource.DataSource
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:     EmptyConfig(),
		log:        nil,
		transforms: nil,
		datasource: nil,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed := EmptyConfig()
	if err := yaml.Unmarshal([]byte(config), &parsed); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse engine config", err)
	}

	if err := parsed.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(parsed.LogLevel)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to create logger", err)
	}

	b.config = parsed
	b.log = log
	b.transforms = indicator.NewDefaultTransformRegistry()

	b.log.Debug("Backtest engine initialized",
		zap.String("broker", string(b.config.Broker)),
		zap.String("alignment", string(b.config.Alignment)),
	)

	return nil
}

// SetLogger replaces the engine logger.
func (b *BacktestEngineV1) SetLogger(log *logger.Logger) {
	b.log = log
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(ds datasource.DataSource) error {
	if ds == nil {
		return errors.New(errors.ErrCodeBacktestNoDatasource, "data source is nil")
	}

	b.datasource = ds

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

// Report implements engine.Engine.
func (b *BacktestEngineV1) Report(result types.BacktestResult, initCash float64) types.TradeStats {
	return CalculateTradeStats(result, initCash)
}

// RunRequest implements engine.Engine.
func (b *BacktestEngineV1) RunRequest(ctx context.Context, request types.BacktestRequest) (types.BacktestResult, error) {
	if err := b.preRunCheck(); err != nil {
		return types.BacktestResult{}, err
	}

	if b.datasource == nil {
		return types.BacktestResult{}, errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	if err := request.Params.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	input := types.BacktestInput{Params: request.Params}

	if request.Params.Strategy.Type != types.StrategyTypeMultiSeriesCrossover {
		if request.DatasetID == "" {
			return types.BacktestResult{}, errors.New(errors.ErrCodeMissingParameter, "dataset_id is required")
		}

		ticks, err := b.datasource.ReadTicks(ctx, request.DatasetID)
		if err != nil {
			return types.BacktestResult{}, err
		}

		input.Ticks = ticks

		return b.Run(ctx, input)
	}

	multi, err := b.fetchMultiSeries(ctx, *request.Params.Strategy.MultiSeriesCrossover)
	if err != nil {
		return types.BacktestResult{}, err
	}

	input.MultiSeries = multi

	return b.Run(ctx, input)
}

// fetchMultiSeries reads the three datasets of a multi-series run concurrently.
func (b *BacktestEngineV1) fetchMultiSeries(ctx context.Context, config types.MultiSeriesCrossoverStrategy) (*types.MultiSeriesTicks, error) {
	ids := []string{config.First.DatasetID, config.Second.DatasetID, config.PriceDatasetID}
	for _, id := range ids {
		if id == "" {
			return nil, errors.New(errors.ErrCodeMissingParameter, "multi-series crossover needs first, second and price dataset ids")
		}
	}

	results := make([][]types.Tick, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, id := range ids {
		group.Go(func() error {
			ticks, err := b.datasource.ReadTicks(groupCtx, id)
			if err != nil {
				return err
			}

			results[i] = ticks

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &types.MultiSeriesTicks{First: results[0], Second: results[1], Price: results[2]}, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, input types.BacktestInput) (types.BacktestResult, error) {
	if err := b.preRunCheck(); err != nil {
		return types.BacktestResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return types.BacktestResult{}, err
	}

	params := input.Params
	if err := params.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	if params.FrequencyOverride.IsNone() {
		params.FrequencyOverride = b.config.FrequencyOverride
	}

	runID := uuid.New().String()
	started := time.Now()
	log := b.log.With(zap.String("run_id", runID), zap.String("strategy", string(params.Strategy.Type)))

	var (
		frame     strategy.Frame
		frequency types.Frequency
		err       error
	)

	if params.Strategy.Type == types.StrategyTypeMultiSeriesCrossover {
		frame, frequency, err = b.prepareMultiSeries(log, params, input.MultiSeries)
	} else {
		frame, frequency, err = b.prepareSingleSeries(params, input.Ticks)
	}

	if err != nil {
		log.Debug("Backtest rejected", zap.Error(err))

		return types.BacktestResult{}, err
	}

	signals, err := strategy.Generate(frame, params.Strategy)
	if err != nil {
		return types.BacktestResult{}, err
	}

	simulation, err := Simulate(frame.Times, frame.Prices, signals, SimulatorConfig{
		InitCash:      params.InitCash,
		Slippage:      params.Slippage,
		CommissionFee: commission_fee.GetCommissionFeeHandler(b.config.Broker, params.Fees),
	})
	if err != nil {
		return types.BacktestResult{}, err
	}

	result := CalculateMetrics(simulation, frame.Prices, frequency)

	log.Info("Backtest completed",
		zap.Int("bars", frame.Len()),
		zap.String("frequency", string(frequency)),
		zap.Int("trades", result.TradeCount),
		zap.Float64("total_return", result.TotalReturn),
		zap.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}

func (b *BacktestEngineV1) prepareSingleSeries(params types.BacktestParams, ticks []types.Tick) (strategy.Frame, types.Frequency, error) {
	if err := types.ValidateTicks(ticks); err != nil {
		return strategy.Frame{}, "", err
	}

	filtered, err := FilterByPeriod(ticks, params.Period)
	if err != nil {
		return strategy.Frame{}, "", err
	}

	frequency := DetectFrequency(filtered, params.FrequencyOverride)
	prices := types.Values(filtered, types.ChannelPrice)

	// the raw price stays untouched for execution and buy-and-hold
	source, transform := types.Values(filtered, types.ChannelIndicator), params.IndicatorTransform
	if params.ApplyTo == types.ChannelPrice {
		source, transform = prices, params.PriceTransform
	}

	series, err := indicator.Apply(b.transforms, source, transform)
	if err != nil {
		return strategy.Frame{}, "", err
	}

	return strategy.Frame{
		Times:  types.Times(filtered),
		Series: series,
		Prices: prices,
	}, frequency, nil
}

func (b *BacktestEngineV1) prepareMultiSeries(log *zap.Logger, params types.BacktestParams, input *types.MultiSeriesTicks) (strategy.Frame, types.Frequency, error) {
	if input == nil {
		return strategy.Frame{}, "", errors.New(errors.ErrCodeInvalidStrategyConfig, "multi-series crossover needs three tick series")
	}

	config := *params.Strategy.MultiSeriesCrossover
	series := [][]types.Tick{input.First, input.Second, input.Price}

	for i, ticks := range series {
		if err := types.ValidateTicks(ticks); err != nil {
			return strategy.Frame{}, "", err
		}

		filtered, err := FilterByPeriod(ticks, params.Period)
		if err != nil {
			return strategy.Frame{}, "", err
		}

		series[i] = filtered
	}

	mode := config.Alignment
	if mode == "" {
		mode = b.config.Alignment
	}

	aligned, report := strategy.Align(series[0], series[1], series[2], mode)
	if report.Length == 0 {
		return strategy.Frame{}, "", errors.New(errors.ErrCodeEmptyPeriod, "no aligned bars across the three series")
	}

	if report.MismatchedTimestamps > 0 {
		log.Warn("Aligned bars have mismatched timestamps",
			zap.String("alignment", string(report.Mode)),
			zap.Int("mismatched", report.MismatchedTimestamps),
			zap.Int("bars", report.Length),
		)
	}

	return strategy.FrameFromAligned(aligned, config), DetectFrequency(aligned.Price, params.FrequencyOverride), nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.log == nil || b.transforms == nil {
		return errors.New(errors.ErrCodeBacktestNotInitialized, "engine is not initialized")
	}

	return nil
}
