package config

import "time"

// Default values for configuration fields.
const (
	DefaultTitle = "verdict - microbial QC reporter"

	// Output defaults
	DefaultResultsPath  = "qc_results.tsv"
	DefaultWarningsPath = "qc_warnings.tsv"

	// Log defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// History defaults
	DefaultHistoryPath         = "data/verdict_history.db"
	DefaultHistoryMaxOpenConns = 10
	DefaultHistoryMaxIdleConns = 5
	DefaultHistoryWALMode      = true
	DefaultHistoryBusyTimeout  = 5 * time.Second

	// Watch defaults
	DefaultWatchDebounceInterval    = 500 * time.Millisecond
	DefaultWatchMetricsListenAddr   = "127.0.0.1:9090"

	// Metrics defaults
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "verdict"
	DefaultMetricsSubsystem = "qc"
)

// ApplyDefaults fills unset fields with their default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}

	if cfg.QC.Output.Results == "" {
		cfg.QC.Output.Results = DefaultResultsPath
	}
	if cfg.QC.Output.Warnings == "" {
		cfg.QC.Output.Warnings = DefaultWarningsPath
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.MaxOpenConns == 0 {
		cfg.History.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.History.MaxIdleConns == 0 {
		cfg.History.MaxIdleConns = DefaultHistoryMaxIdleConns
	}
	if cfg.History.WALMode == nil {
		wal := DefaultHistoryWALMode
		cfg.History.WALMode = &wal
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}

	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultWatchDebounceInterval
	}
	if cfg.Watch.MetricsListenAddress == "" {
		cfg.Watch.MetricsListenAddress = DefaultWatchMetricsListenAddr
	}

	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := DefaultMetricsEnabled
		cfg.Telemetry.Metrics.Enabled = &enabled
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
