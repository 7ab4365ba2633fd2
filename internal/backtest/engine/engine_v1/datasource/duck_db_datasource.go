package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBDataSource reads datasets straight from parquet or CSV files with
// columns t, v and usd. The dataset id of a file is its base name without
// extension.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	files  map[string]string
	mu     sync.RWMutex
}

// NewDuckDBDataSource opens an in-memory DuckDB connection.
func NewDuckDBDataSource(logger *logger.Logger) (*DuckDBDataSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		files:  make(map[string]string),
		mu:     sync.RWMutex{},
	}, nil
}

// Initialize registers every parquet or CSV file matching the glob pattern.
func (d *DuckDBDataSource) Initialize(pattern string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("pattern", pattern))

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid data path %s", pattern)
	}

	if len(matches) == 0 {
		return errors.Newf(errors.ErrCodeDataNotFound, "no data files match %s", pattern)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, file := range matches {
		ext := strings.ToLower(filepath.Ext(file))
		if ext != ".parquet" && ext != ".csv" {
			d.logger.Debug("Skipping unsupported file", zap.String("file", file))
			continue
		}

		id := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		d.files[id] = file
	}

	d.logger.Info("DuckDB data source ready", zap.Int("datasets", len(d.files)))

	return nil
}

func (d *DuckDBDataSource) lookup(datasetID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	file, ok := d.files[datasetID]
	if !ok {
		return "", errors.Newf(errors.ErrCodeDatasetNotFound, "dataset %s not found", datasetID)
	}

	return file, nil
}

// tableFunction returns the DuckDB reader for a file.
func tableFunction(file string) string {
	escaped := strings.ReplaceAll(file, "'", "''")
	if strings.EqualFold(filepath.Ext(file), ".csv") {
		return fmt.Sprintf("read_csv_auto('%s', header=true)", escaped)
	}

	return fmt.Sprintf("read_parquet('%s')", escaped)
}

// ReadTicks implements DataSource.
func (d *DuckDBDataSource) ReadTicks(ctx context.Context, datasetID string) ([]types.Tick, error) {
	file, err := d.lookup(datasetID)
	if err != nil {
		return nil, err
	}

	query, args, err := d.sq.
		Select("t", "CAST(v AS DOUBLE)", "CAST(usd AS DOUBLE)").
		From(tableFunction(file)).
		Where(squirrel.And{
			squirrel.NotEq{"t": nil},
			squirrel.NotEq{"v": nil},
			squirrel.NotEq{"usd": nil},
		}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read dataset %s", datasetID)
	}
	defer rows.Close()

	var ticks []types.Tick

	// rows come in file order, NormalizeTicks sorts them
	parser := &TimestampParser{}

	for rows.Next() {
		var (
			raw  any
			tick types.Tick
		)

		if err := rows.Scan(&raw, &tick.Indicator, &tick.Price); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan tick", err)
		}

		tick.Time, err = parser.Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "dataset %s", datasetID)
		}

		ticks = append(ticks, tick)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating ticks", err)
	}

	d.logger.Debug("Read ticks", zap.String("dataset", datasetID), zap.Int("rows", len(ticks)))

	return NormalizeTicks(ticks)
}

// ListDatasets implements DataSource.
func (d *DuckDBDataSource) ListDatasets(ctx context.Context) ([]Dataset, error) {
	d.mu.RLock()
	ids := make([]string, 0, len(d.files))
	for id := range d.files {
		ids = append(ids, id)
	}
	d.mu.RUnlock()

	sort.Strings(ids)

	out := make([]Dataset, 0, len(ids))

	for _, id := range ids {
		file, err := d.lookup(id)
		if err != nil {
			return nil, err
		}

		query, args, err := d.sq.Select("COUNT(*)").From(tableFunction(file)).ToSql()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
		}

		var count int
		if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to count dataset %s", id)
		}

		out = append(out, Dataset{ID: id, Name: filepath.Base(file), RowCount: count})
	}

	return out, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
