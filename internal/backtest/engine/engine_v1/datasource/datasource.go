package datasource

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Dataset describes one stored tick series.
type Dataset struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	RowCount    int    `yaml:"row_count" json:"row_count"`
}

// DataSource resolves dataset ids to tick series. Implementations are safe
// for concurrent reads.
type DataSource interface {
	// ReadTicks returns the ticks of a dataset in ascending time order.
	ReadTicks(ctx context.Context, datasetID string) ([]types.Tick, error)
	// ListDatasets returns the datasets available in the source.
	ListDatasets(ctx context.Context) ([]Dataset, error)
	// Close closes the data source and releases any resources
	Close() error
}
