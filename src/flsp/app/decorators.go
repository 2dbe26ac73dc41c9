package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Context describes where the daemon runs.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the daemon runs on a developer machine next to the editor.
	EnvLocal = "local"

	// EnvDevelopment indicates that the daemon runs from a development checkout.
	EnvDevelopment = "development"

	_envFlspEnvironment = "FLSP_ENVIRONMENT"
)

// Outputs zap understands without a file behind them.
var _standardStreams = map[string]struct{}{
	"stdout": {},
	"stderr": {},
}

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envFlspEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, os.MkdirAll)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, mkdirAll func(path string, perm os.FileMode) error) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range append(c.OutputPaths, c.ErrorOutputPaths...) {
		if _, ok := _standardStreams[outputPath]; ok {
			continue
		}
		dir := filepath.Dir(outputPath)
		if err := mkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}
