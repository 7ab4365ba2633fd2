package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// runOutcome is one row of the run summary.
type runOutcome struct {
	RequestPath string
	ResultPath  string
	Strategy    string
	TotalReturn float64
	Sharpe      float64
	MaxDrawdown float64
	Trades      int
	Err         error
	// InputError marks a request the engine rejected, as opposed to a run that failed.
	InputError bool
}

func (o runOutcome) failed(err error) runOutcome {
	o.Err = err
	o.InputError = errors.IsInputError(err)

	return o
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run every backtest request matching a glob and write one result file per request",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "request",
				Aliases:  []string{"r"},
				Usage:    "Glob of request YAML files",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "engine-config",
				Aliases: []string{"c"},
				Usage:   "Path to the engine config YAML",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Folder for result files",
				Value:   "results",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "Number of requests run at once",
				Value: 4,
			},
		}, dataFlags...),
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	requests, err := filepath.Glob(cmd.String("request"))
	if err != nil {
		return fmt.Errorf("invalid request pattern: %w", err)
	}

	if len(requests) == 0 {
		return fmt.Errorf("no request files match %s", cmd.String("request"))
	}

	config := ""
	if path := cmd.String("engine-config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read engine config: %w", err)
		}

		config = string(data)
	}

	backtester := engine_v1.NewBacktestEngineV1()
	if err := backtester.Initialize(config); err != nil {
		return err
	}

	ds, err := openDataSource(cmd)
	if err != nil {
		return err
	}
	defer ds.Close()

	if err := backtester.SetDataSource(ds); err != nil {
		return err
	}

	outcomes := runRequests(ctx, backtester, requests, cmd.String("output"), int(cmd.Int("parallel")))

	fmt.Println(renderRunSummary(outcomes))

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d backtests failed", failed, len(outcomes))
	}

	return nil
}

// runRequests runs each request on the shared engine. A failing request is
// recorded in its outcome and does not stop the others.
func runRequests(ctx context.Context, backtester engine.Engine, requests []string, outputDir string, parallel int) []runOutcome {
	outcomes := make([]runOutcome, len(requests))
	bar := progressbar.Default(int64(len(requests)), "Running backtests")

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(parallel, 1))

	for i, path := range requests {
		group.Go(func() error {
			outcome := runRequest(groupCtx, backtester, path, outputDir)

			mu.Lock()
			outcomes[i] = outcome
			_ = bar.Add(1)
			mu.Unlock()

			return nil
		})
	}

	_ = group.Wait()

	return outcomes
}

func runRequest(ctx context.Context, backtester engine.Engine, path string, outputDir string) runOutcome {
	outcome := runOutcome{RequestPath: path}

	request, err := engine_v1.ReadRequest(path)
	if err != nil {
		return outcome.failed(err)
	}

	outcome.Strategy = string(request.Params.Strategy.Type)

	result, err := backtester.RunRequest(ctx, request)
	if err != nil {
		return outcome.failed(err)
	}

	resultPath := engine_v1.ResultPath(outputDir, path, request.Params.Strategy.Type)
	err = engine_v1.WriteResult(resultPath, engine_v1.ResultFile{
		Request: request,
		Result:  result,
		Stats:   backtester.Report(result, request.Params.InitCash),
	})
	if err != nil {
		return outcome.failed(err)
	}

	outcome.ResultPath = resultPath
	outcome.TotalReturn = result.TotalReturn
	outcome.Sharpe = result.Sharpe
	outcome.MaxDrawdown = result.MaxDrawdown
	outcome.Trades = result.TradeCount

	return outcome
}
