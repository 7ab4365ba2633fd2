package datasource

import (
	"context"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// InMemoryDataSource keeps datasets in a map. It backs tests and piped CLI input.
type InMemoryDataSource struct {
	datasets map[string]Dataset
	ticks    map[string][]types.Tick
	mu       sync.RWMutex
}

// NewInMemoryDataSource creates an empty in-memory data source.
func NewInMemoryDataSource() *InMemoryDataSource {
	return &InMemoryDataSource{
		datasets: make(map[string]Dataset),
		ticks:    make(map[string][]types.Tick),
		mu:       sync.RWMutex{},
	}
}

// Put stores a dataset, replacing any previous one with the same id.
func (ds *InMemoryDataSource) Put(id string, name string, ticks []types.Tick) error {
	normalized, err := NormalizeTicks(append([]types.Tick(nil), ticks...))
	if err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.datasets[id] = Dataset{ID: id, Name: name, RowCount: len(normalized)}
	ds.ticks[id] = normalized

	return nil
}

// ReadTicks implements DataSource.
func (ds *InMemoryDataSource) ReadTicks(ctx context.Context, datasetID string) ([]types.Tick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	ticks, ok := ds.ticks[datasetID]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDatasetNotFound, "dataset %s not found", datasetID)
	}

	return append([]types.Tick(nil), ticks...), nil
}

// ListDatasets implements DataSource.
func (ds *InMemoryDataSource) ListDatasets(ctx context.Context) ([]Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	out := make([]Dataset, 0, len(ds.datasets))
	for _, dataset := range ds.datasets {
		out = append(out, dataset)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// Close implements DataSource.
func (ds *InMemoryDataSource) Close() error {
	return nil
}
