package engine

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

type BacktestEngineV1Config struct {
	Broker    commission_fee.Broker `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=Fee model applied to every fill" validate:"omitempty,oneof=percentage zero_commission"`
	LogLevel  string                `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,description=Minimum level written by the engine logger,enum=debug,enum=info,enum=warn,enum=error" validate:"omitempty,oneof=debug info warn error"`
	Alignment types.AlignmentMode   `yaml:"alignment" json:"alignment" jsonschema:"title=Alignment,description=Default alignment of multi-series runs that do not choose one" validate:"omitempty,oneof=ordinal timestamp"`
	// Version is the engine version the config was written for.
	Version string `yaml:"version" json:"version" jsonschema:"title=Version,description=Engine version this config targets"`
	// FrequencyOverride applies to every run that does not carry its own override.
	FrequencyOverride optional.Option[types.Frequency] `yaml:"frequency_override" json:"frequency_override" jsonschema:"title=Frequency Override,description=Bar frequency used instead of detection"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(any) error) error {
	type Config struct {
		Broker            commission_fee.Broker `yaml:"broker"`
		LogLevel          string                `yaml:"log_level"`
		Alignment         types.AlignmentMode   `yaml:"alignment"`
		Version           string                `yaml:"version"`
		FrequencyOverride *types.Frequency      `yaml:"frequency_override"`
	}

	// keys missing from the document keep their current values
	config := Config{
		Broker:    c.Broker,
		LogLevel:  c.LogLevel,
		Alignment: c.Alignment,
		Version:   c.Version,
	}
	if c.FrequencyOverride.IsSome() {
		freq := c.FrequencyOverride.Unwrap()
		config.FrequencyOverride = &freq
	}

	if err := unmarshal(&config); err != nil {
		return err
	}

	c.Broker = config.Broker
	c.LogLevel = config.LogLevel
	c.Alignment = config.Alignment
	c.Version = config.Version
	c.FrequencyOverride = optional.None[types.Frequency]()

	if config.FrequencyOverride != nil {
		c.FrequencyOverride = optional.Some(*config.FrequencyOverride)
	}

	return nil
}

// MarshalYAML writes frequency_override only when it is set.
func (c BacktestEngineV1Config) MarshalYAML() (any, error) {
	type Config struct {
		Broker            commission_fee.Broker `yaml:"broker"`
		LogLevel          string                `yaml:"log_level"`
		Alignment         types.AlignmentMode   `yaml:"alignment"`
		Version           string                `yaml:"version,omitempty"`
		FrequencyOverride *types.Frequency      `yaml:"frequency_override,omitempty"`
	}

	out := Config{
		Broker:    c.Broker,
		LogLevel:  c.LogLevel,
		Alignment: c.Alignment,
		Version:   c.Version,
	}
	if c.FrequencyOverride.IsSome() {
		freq := c.FrequencyOverride.Unwrap()
		out.FrequencyOverride = &freq
	}

	return out, nil
}

// Validate checks field values and version compatibility.
func (c BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid engine config", err)
	}

	if c.FrequencyOverride.IsSome() && !c.FrequencyOverride.Unwrap().IsValid() {
		return errors.Newf(errors.ErrCodeInvalidFrequency, "unsupported frequency override %q", c.FrequencyOverride.Unwrap())
	}

	if c.Version != "" {
		return version.CheckVersionCompatibility(version.GetVersion(), c.Version)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if strings.HasPrefix(t.String(), "optional.Option[") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{types.FrequencyDaily, types.FrequencyHourly},
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			if strings.Contains(t.String(), "types.AlignmentMode") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{types.AlignmentOrdinal, types.AlignmentTimestamp},
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Broker:            commission_fee.BrokerPercentage,
		LogLevel:          "info",
		Alignment:         types.AlignmentOrdinal,
		Version:           "",
		FrequencyOverride: optional.None[types.Frequency](),
	}
}
