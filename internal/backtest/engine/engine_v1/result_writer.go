package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ResultFile is what the CLI writes for one request.
type ResultFile struct {
	Request types.BacktestRequest `yaml:"request"`
	Result  types.BacktestResult  `yaml:"result"`
	Stats   types.TradeStats      `yaml:"stats"`
}

// ResultPath returns <outputDir>/<request file name>_<strategy type>.yaml.
func ResultPath(outputDir string, requestPath string, strategyType types.StrategyType) string {
	name := strings.TrimSuffix(filepath.Base(requestPath), filepath.Ext(requestPath))

	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.yaml", name, strategyType))
}

// WriteResult writes a result file as YAML, creating parent folders.
func WriteResult(path string, file ResultFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeDataWriteFailed, err, "failed to create results folder for %s", path)
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, "failed to marshal result", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(errors.ErrCodeDataWriteFailed, err, "failed to write %s", path)
	}

	return nil
}

// ReadRequest loads a request from a YAML file. Missing params take the
// defaults of types.DefaultBacktestParams.
func ReadRequest(path string) (types.BacktestRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.BacktestRequest{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to read request %s", path)
	}

	request := types.BacktestRequest{Params: types.DefaultBacktestParams()}
	if err := yaml.Unmarshal(data, &request); err != nil {
		return types.BacktestRequest{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to parse request %s", path)
	}

	return request, nil
}
