package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	engine_v1 "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/schema"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	schemaName        = "backtest-engine-v1-config.json"
	requestSchemaName = "backtest-request.json"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Write the engine config and request JSON schemas and a sample config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Folder for the schema and sample config",
				Value:   "config",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return writeSchema(cmd.String("output"))
		},
	}
}

// writeSchema writes both schemas and, when missing, a sample config that
// points at the engine config schema.
func writeSchema(dir string) error {
	config := engine_v1.EmptyConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	schemaPath := filepath.Join(dir, schemaName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	requestSchema, err := schema.ToJSONSchema(types.BacktestRequest{})
	if err != nil {
		return fmt.Errorf("failed to generate request schema: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, requestSchemaName), []byte(requestSchema), 0o644); err != nil {
		return fmt.Errorf("failed to write request schema: %w", err)
	}

	sampleConfigPath := filepath.Join(dir, "backtest-engine-v1-config.yaml")
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)
		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0o644); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}

		log.Printf("Sample config generated at %s", sampleConfigPath)
	}

	log.Printf("Schema generated at %s", schemaPath)

	return nil
}
