package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// VERDICT_* environment variable overrides on top. The sequence is: parse
// file, apply defaults, apply overrides, validate.
func LoadWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides applies VERDICT_SECTION_FIELD environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("VERDICT_QC_DATA_FILE"); val != "" {
		cfg.QC.Input.Data.File = val
		cfg.QC.Input.Data.APICall = ""
	}
	if val := os.Getenv("VERDICT_QC_DATA_API_CALL"); val != "" {
		cfg.QC.Input.Data.APICall = val
		cfg.QC.Input.Data.File = ""
	}
	if val := os.Getenv("VERDICT_QC_MAPPING"); val != "" {
		cfg.QC.Input.Mapping = val
	}
	if val := os.Getenv("VERDICT_QC_RULES"); val != "" {
		cfg.QC.Input.QCRules = val
	}
	if val := os.Getenv("VERDICT_QC_TESTS"); val != "" {
		cfg.QC.Input.QCTests = val
	}
	if val := os.Getenv("VERDICT_QC_RESULTS"); val != "" {
		cfg.QC.Output.Results = val
	}
	if val := os.Getenv("VERDICT_QC_WARNINGS"); val != "" {
		cfg.QC.Output.Warnings = val
	}

	if val := os.Getenv("VERDICT_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("VERDICT_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv("VERDICT_LOG_FILE"); val != "" {
		cfg.Log.File = val
	}

	if val := os.Getenv("VERDICT_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("VERDICT_WATCH_SCHEDULE"); val != "" {
		cfg.Watch.Schedule = val
	}
	if val := os.Getenv("VERDICT_WATCH_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Watch.MetricsListenAddress = val
	}
	if val := os.Getenv("VERDICT_WATCH_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.DebounceInterval = d
		}
	}
}
