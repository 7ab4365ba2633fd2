package engine

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Engine runs indicator-driven backtests. An engine keeps no state between
// runs, so one instance may serve concurrent callers once initialized.
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetDataSource sets the dataset store used by RunRequest.
	SetDataSource(ds datasource.DataSource) error
	// Run backtests ticks supplied by the caller.
	Run(ctx context.Context, input types.BacktestInput) (types.BacktestResult, error)
	// RunRequest resolves dataset ids through the data source, then runs.
	RunRequest(ctx context.Context, request types.BacktestRequest) (types.BacktestResult, error)
	// Report summarises the trade ledger of a result.
	Report(result types.BacktestResult, initCash float64) types.TradeStats
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
