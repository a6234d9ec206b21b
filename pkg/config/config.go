package config

import "time"

// Config is the root configuration structure for verdict.
type Config struct {
	// Title is a free-form run title used in logs and reports.
	Title string `yaml:"title"`

	// QC configures the engine's inputs and outputs.
	QC QCConfig `yaml:"qc"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log"`

	// History configures the SQLite run-history store.
	History HistoryConfig `yaml:"history"`

	// Watch configures watch mode: input file watching, scheduled
	// re-fetching, and the metrics endpoint.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry configures metrics collection.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// QCConfig contains the engine's input and output locations.
type QCConfig struct {
	// Input names the reference tables and the run-data source.
	Input InputConfig `yaml:"input"`

	// Output names the result and warning files.
	Output OutputConfig `yaml:"output"`
}

// InputConfig names the four engine inputs.
type InputConfig struct {
	// Data is the run-data source: a local file or a remote endpoint.
	Data DataConfig `yaml:"data"`

	// Mapping is the path to the mapping configuration YAML.
	Mapping string `yaml:"mapping"`

	// QCRules is the path to the rules table (TSV).
	QCRules string `yaml:"qc_rules"`

	// QCTests is the path to the tests table (TSV).
	QCTests string `yaml:"qc_tests"`
}

// DataConfig selects the run-data source. Exactly one of File or APICall
// must be set.
type DataConfig struct {
	// File is a local tab-separated sample table.
	File string `yaml:"file"`

	// APICall is the URL of a JSON endpoint serving sample records.
	APICall string `yaml:"api_call"`
}

// OutputConfig names the output files.
type OutputConfig struct {
	// Results is the results table path.
	// Default: "qc_results.tsv"
	Results string `yaml:"results"`

	// Warnings is the warnings table path, written even when empty.
	// Default: "qc_warnings.tsv"
	Warnings string `yaml:"warnings"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`

	// File is an optional log file; logs go to stderr when empty.
	File string `yaml:"file"`
}

// HistoryConfig configures the run-history store.
type HistoryConfig struct {
	// Enabled controls whether completed runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	// Default: "data/verdict_history.db"
	Path string `yaml:"path"`

	// MaxOpenConns caps open database connections. Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns caps idle database connections. Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging. Default: true
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is the wait when the database is locked. Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// DebounceInterval is the quiet period after a file change before the
	// run is re-triggered. Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Schedule is an optional cron expression for periodic re-runs when
	// the data source is a remote endpoint (e.g. "0 * * * *"). Empty
	// disables scheduled runs.
	Schedule string `yaml:"schedule"`

	// MetricsListenAddress is where the Prometheus handler listens while
	// watch mode is active. Default: "127.0.0.1:9090"
	MetricsListenAddress string `yaml:"metrics_listen_address"`
}

// TelemetryConfig configures metrics collection.
type TelemetryConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig configures the Prometheus metric names.
type MetricsConfig struct {
	// Enabled controls whether engine metrics are collected.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "verdict"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem. Default: "qc"
	Subsystem string `yaml:"subsystem"`
}
