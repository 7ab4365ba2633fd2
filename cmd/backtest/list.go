package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List the datasets of a data source",
		Flags:  dataFlags,
		Action: listAction,
	}
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	ds, err := openDataSource(cmd)
	if err != nil {
		return err
	}
	defer ds.Close()

	datasets, err := ds.ListDatasets(ctx)
	if err != nil {
		return err
	}

	fmt.Println(renderDatasets(datasets))

	return nil
}
