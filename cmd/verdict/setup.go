package main

import (
	"fmt"

	"microqc-hq/verdict/pkg/cli"
	"microqc-hq/verdict/pkg/config"
	"microqc-hq/verdict/pkg/qc/history"
	"microqc-hq/verdict/pkg/telemetry/logging"
	"microqc-hq/verdict/pkg/telemetry/metrics"
)

// inputFlags are the data-source and log overrides shared by run and watch.
type inputFlags struct {
	dataFile string
	apiCall  string
	logLevel string
}

func (f *inputFlags) apply(cfg *config.Config) error {
	if f.dataFile != "" && f.apiCall != "" {
		return cli.NewConfigError("qc.input.data", "only one of --file and --api-call may be set")
	}
	if f.dataFile != "" {
		cfg.QC.Input.Data.File = f.dataFile
		cfg.QC.Input.Data.APICall = ""
	}
	if f.apiCall != "" {
		cfg.QC.Input.Data.APICall = f.apiCall
		cfg.QC.Input.Data.File = ""
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return nil
}

// loadConfig loads the configuration file, applies environment and flag
// overrides, and re-validates.
func loadConfig(flags *inputFlags) (*config.Config, error) {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if flags != nil {
		if err := flags.apply(cfg); err != nil {
			return nil, err
		}
		if err := config.Validate(cfg); err != nil {
			return nil, cli.NewConfigError("", err.Error())
		}
	}

	return cfg, nil
}

// newLogger builds the configured logger. The returned Logger must be
// closed when a log file is configured.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, cli.NewConfigError("log", err.Error())
	}
	return logger, nil
}

// newCollector builds the metrics collector, or nil when disabled.
func newCollector(cfg *config.Config) *metrics.Collector {
	if cfg.Telemetry.Metrics.Enabled != nil && !*cfg.Telemetry.Metrics.Enabled {
		return nil
	}
	return metrics.NewCollector(cfg.Telemetry.Metrics, nil)
}

// openHistory opens the history store, or returns nil when disabled.
func openHistory(cfg *config.Config, logger *logging.Logger) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.History, logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}
