package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/moznion/go-optional"
	engine_v1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/urfave/cli/v3"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a CSV file with columns t, v and usd into a SQLite dataset store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "csv",
				Usage:    "CSV file to import; t is epoch seconds, epoch milliseconds or a date",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "sqlite",
				Usage:    "Path to the SQLite dataset store, created when missing",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Dataset name, defaults to the file name",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Dataset description",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Action: importAction,
	}
}

// importedDataset is what an import reports back.
type importedDataset struct {
	ID        string
	Rows      int
	Frequency types.Frequency
}

func importAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return err
	}
	defer log.Sync()

	name := cmd.String("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(cmd.String("csv")), filepath.Ext(cmd.String("csv")))
	}

	store, err := datasource.NewSQLiteDataSource(cmd.String("sqlite"), log)
	if err != nil {
		return err
	}
	defer store.Close()

	imported, err := importCSV(ctx, log, store, cmd.String("csv"), name, cmd.String("description"))
	if err != nil {
		return err
	}

	fmt.Println(renderImportSummary(name, imported))

	return nil
}

// importCSV reads a CSV file through DuckDB and stores it as a new dataset.
func importCSV(ctx context.Context, log *logger.Logger, store *datasource.SQLiteDataSource, path string, name string, description string) (importedDataset, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return importedDataset{}, fmt.Errorf("%s is not a .csv file", path)
	}

	reader, err := datasource.NewDuckDBDataSource(log)
	if err != nil {
		return importedDataset{}, err
	}
	defer reader.Close()

	if err := reader.Initialize(path); err != nil {
		return importedDataset{}, err
	}

	ticks, err := reader.ReadTicks(ctx, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return importedDataset{}, err
	}

	if len(ticks) == 0 {
		return importedDataset{}, fmt.Errorf("%s has no valid rows", path)
	}

	if err := types.ValidateTicks(ticks); err != nil {
		return importedDataset{}, err
	}

	id, err := store.CreateDataset(ctx, name, description)
	if err != nil {
		return importedDataset{}, err
	}

	rows, err := store.SaveTicks(ctx, id, ticks)
	if err != nil {
		return importedDataset{}, err
	}

	return importedDataset{
		ID:        id,
		Rows:      rows,
		Frequency: engine_v1.DetectFrequency(ticks, optional.None[types.Frequency]()),
	}, nil
}
