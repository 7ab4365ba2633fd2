package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/urfave/cli/v3"
)

var dataFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "Glob of parquet or CSV files with columns t, v and usd (dataset id is the file name)",
	},
	&cli.StringFlag{
		Name:  "sqlite",
		Usage: "Path to a SQLite dataset store, used instead of --data",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level of the data source (debug, info, warn, error)",
		Value: "warn",
	},
}

// openDataSource returns the SQLite store when --sqlite is set and the
// DuckDB file reader otherwise.
func openDataSource(cmd *cli.Command) (datasource.DataSource, error) {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return nil, err
	}

	if path := cmd.String("sqlite"); path != "" {
		return datasource.NewSQLiteDataSource(path, log)
	}

	pattern := cmd.String("data")
	if pattern == "" {
		return nil, fmt.Errorf("either --data or --sqlite is required")
	}

	ds, err := datasource.NewDuckDBDataSource(log)
	if err != nil {
		return nil, err
	}

	if err := ds.Initialize(pattern); err != nil {
		_ = ds.Close()

		return nil, err
	}

	return ds, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Backtest indicator-driven strategies on tick datasets",
		Commands: []*cli.Command{
			runCommand(),
			importCommand(),
			listCommand(),
			schemaCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
