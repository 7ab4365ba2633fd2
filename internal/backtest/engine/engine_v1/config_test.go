package engine

import (
	"encoding/json"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestEmptyConfig() {
	config := EmptyConfig()

	suite.Equal(commission_fee.BrokerPercentage, config.Broker)
	suite.Equal("info", config.LogLevel)
	suite.Equal(types.AlignmentOrdinal, config.Alignment)
	suite.Empty(config.Version)
	suite.True(config.FrequencyOverride.IsNone())
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	config := &BacktestEngineV1Config{}
	schema, err := config.GenerateSchema()

	suite.NoError(err)
	suite.NotNil(schema)
	suite.Equal("backtest-engine-v1-config", schema.Title)
	suite.Equal("Configuration schema for BacktestEngineV1", schema.Description)
	suite.Equal("http://json-schema.org/draft-07/schema#", schema.Version)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := &BacktestEngineV1Config{}
	schemaJSON, err := config.GenerateSchemaJSON()

	suite.NoError(err)
	suite.NotEmpty(schemaJSON)

	var result map[string]interface{}
	err = json.Unmarshal([]byte(schemaJSON), &result)
	suite.NoError(err)

	suite.Equal("backtest-engine-v1-config", result["title"])
	suite.Contains(schemaJSON, "zero_commission")
	suite.Contains(schemaJSON, "frequency_override")
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLComplete() {
	yamlData := `
broker: zero_commission
log_level: debug
alignment: timestamp
version: v1.0.3
frequency_override: 1D
`

	config := EmptyConfig()
	err := yaml.Unmarshal([]byte(yamlData), &config)

	suite.NoError(err)
	suite.Equal(commission_fee.BrokerZero, config.Broker)
	suite.Equal("debug", config.LogLevel)
	suite.Equal(types.AlignmentTimestamp, config.Alignment)
	suite.Equal("v1.0.3", config.Version)
	suite.True(config.FrequencyOverride.IsSome())
	suite.Equal(types.FrequencyDaily, config.FrequencyOverride.Unwrap())
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLKeepsDefaults() {
	config := EmptyConfig()
	err := yaml.Unmarshal([]byte("log_level: warn\n"), &config)

	suite.NoError(err)
	suite.Equal("warn", config.LogLevel)
	suite.Equal(commission_fee.BrokerPercentage, config.Broker)
	suite.Equal(types.AlignmentOrdinal, config.Alignment)
	suite.True(config.FrequencyOverride.IsNone())
}

func (suite *ConfigTestSuite) TestValidate() {
	tests := []struct {
		name   string
		mutate func(c *BacktestEngineV1Config)
		code   errors.ErrorCode
	}{
		{"unknown broker", func(c *BacktestEngineV1Config) { c.Broker = "interactive_broker" }, errors.ErrCodeInvalidConfiguration},
		{"unknown log level", func(c *BacktestEngineV1Config) { c.LogLevel = "trace" }, errors.ErrCodeInvalidConfiguration},
		{"unknown alignment", func(c *BacktestEngineV1Config) { c.Alignment = "nearest" }, errors.ErrCodeInvalidConfiguration},
		{"unknown frequency", func(c *BacktestEngineV1Config) {
			c.FrequencyOverride = optional.Some(types.Frequency("5m"))
		}, errors.ErrCodeInvalidFrequency},
		{"major version mismatch", func(c *BacktestEngineV1Config) { c.Version = "v2.0.0" }, errors.ErrCodeVersionMismatch},
		{"malformed version", func(c *BacktestEngineV1Config) { c.Version = "latest" }, errors.ErrCodeVersionMismatch},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			config := EmptyConfig()
			tc.mutate(&config)

			err := config.Validate()
			suite.Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *ConfigTestSuite) TestValidateMatchingVersion() {
	config := EmptyConfig()
	config.Version = version.GetVersion()
	suite.NoError(config.Validate())

	config.Version = "main"
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestMarshalYAML() {
	config := EmptyConfig()

	out, err := yaml.Marshal(config)
	suite.NoError(err)
	suite.Contains(string(out), "broker: percentage")
	suite.NotContains(string(out), "frequency_override")

	config.FrequencyOverride = optional.Some(types.FrequencyHourly)
	out, err = yaml.Marshal(config)
	suite.NoError(err)

	decoded := EmptyConfig()
	suite.NoError(yaml.Unmarshal(out, &decoded))
	suite.Equal(types.FrequencyHourly, decoded.FrequencyOverride.Unwrap())
}
