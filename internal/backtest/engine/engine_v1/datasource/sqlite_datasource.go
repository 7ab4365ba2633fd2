package datasource

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS datasets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	row_count INTEGER DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS ticks_new (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset_id INTEGER NOT NULL,
	t TIMESTAMP NOT NULL,
	v REAL NOT NULL,
	usd REAL NOT NULL,
	FOREIGN KEY (dataset_id) REFERENCES datasets (id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_ticks_dataset_t ON ticks_new (dataset_id, t);
`

// SQLiteDataSource is the dataset store backed by a SQLite file.
type SQLiteDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewSQLiteDataSource opens (and if needed creates) the store at path.
// Use ":memory:" for a throwaway store.
func NewSQLiteDataSource(path string, logger *logger.Logger) (*SQLiteDataSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open sqlite", err)
	}

	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create schema", err)
	}

	return &SQLiteDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func parseDatasetID(datasetID string) (int64, error) {
	id, err := strconv.ParseInt(datasetID, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "dataset id %q is not numeric", datasetID)
	}

	return id, nil
}

// CreateDataset inserts an empty dataset and returns its id.
func (s *SQLiteDataSource) CreateDataset(ctx context.Context, name string, description string) (string, error) {
	result, err := s.sq.Insert("datasets").
		Columns("name", "description").
		Values(name, description).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeDataWriteFailed, err, "failed to create dataset %s", name)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to read dataset id", err)
	}

	s.logger.Info("Dataset created", zap.Int64("id", id), zap.String("name", name))

	return strconv.FormatInt(id, 10), nil
}

// SaveTicks appends ticks to a dataset and refreshes its row count.
func (s *SQLiteDataSource) SaveTicks(ctx context.Context, datasetID string, ticks []types.Tick) (int, error) {
	id, err := parseDatasetID(datasetID)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	const batchSize = 500

	for start := 0; start < len(ticks); start += batchSize {
		insert := s.sq.Insert("ticks_new").Columns("dataset_id", "t", "v", "usd")
		for _, tick := range ticks[start:min(start+batchSize, len(ticks))] {
			insert = insert.Values(id, tick.Time.UTC(), tick.Indicator, tick.Price)
		}

		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return 0, errors.Wrapf(errors.ErrCodeDataWriteFailed, err, "failed to insert ticks into dataset %s", datasetID)
		}
	}

	_, err = s.sq.Update("datasets").
		Set("row_count", squirrel.Expr("(SELECT COUNT(*) FROM ticks_new WHERE dataset_id = ?)", id)).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to update row count", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to commit ticks", err)
	}

	s.logger.Info("Ticks saved", zap.String("dataset", datasetID), zap.Int("rows", len(ticks)))

	return len(ticks), nil
}

// ReadTicks implements DataSource.
func (s *SQLiteDataSource) ReadTicks(ctx context.Context, datasetID string) ([]types.Tick, error) {
	id, err := parseDatasetID(datasetID)
	if err != nil {
		return nil, err
	}

	var exists int

	err = s.sq.Select("COUNT(*)").From("datasets").Where(squirrel.Eq{"id": id}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&exists)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to look up dataset", err)
	}

	if exists == 0 {
		return nil, errors.Newf(errors.ErrCodeDatasetNotFound, "dataset %s not found", datasetID)
	}

	rows, err := s.sq.Select("t", "v", "usd").
		From("ticks_new").
		Where(squirrel.Eq{"dataset_id": id}).
		OrderBy("t ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read dataset %s", datasetID)
	}
	defer rows.Close()

	var ticks []types.Tick

	// rows written by other tools may hold epoch numbers or text instead of datetimes
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

	return NormalizeTicks(ticks)
}

// ListDatasets implements DataSource.
func (s *SQLiteDataSource) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.sq.Select("id", "name", "COALESCE(description, '')", "row_count").
		From("datasets").
		OrderBy("id ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to list datasets", err)
	}
	defer rows.Close()

	var out []Dataset

	for rows.Next() {
		var (
			id      int64
			dataset Dataset
		)

		if err := rows.Scan(&id, &dataset.Name, &dataset.Description, &dataset.RowCount); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan dataset", err)
		}

		dataset.ID = strconv.FormatInt(id, 10)
		out = append(out, dataset)
	}

	return out, rows.Err()
}

// Close implements DataSource.
func (s *SQLiteDataSource) Close() error {
	return s.db.Close()
}
