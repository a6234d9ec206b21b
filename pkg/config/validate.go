package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g. "qc.input.qc_rules").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration.
type ValidationError struct {
	// Errors contains all validation errors found.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration, collecting every failure,
// and returns nil when the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateQC(&cfg.QC)...)
	errs = append(errs, validateLog(&cfg.Log)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateQC(qc *QCConfig) []FieldError {
	var errs []FieldError

	if qc.Input.Mapping == "" {
		errs = append(errs, FieldError{Field: "qc.input.mapping", Message: "mapping configuration path is required"})
	}
	if qc.Input.QCRules == "" {
		errs = append(errs, FieldError{Field: "qc.input.qc_rules", Message: "rules table path is required"})
	}
	if qc.Input.QCTests == "" {
		errs = append(errs, FieldError{Field: "qc.input.qc_tests", Message: "tests table path is required"})
	}

	data := qc.Input.Data
	if data.File != "" && data.APICall != "" {
		errs = append(errs, FieldError{
			Field:   "qc.input.data",
			Message: "'file' and 'api_call' are mutually exclusive",
		})
	}
	if data.APICall != "" {
		if u, err := url.Parse(data.APICall); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   "qc.input.data.api_call",
				Message: fmt.Sprintf("invalid URL %q", data.APICall),
			})
		}
	}

	if qc.Output.Results == "" {
		errs = append(errs, FieldError{Field: "qc.output.results", Message: "results path is required"})
	}
	if qc.Output.Warnings == "" {
		errs = append(errs, FieldError{Field: "qc.output.warnings", Message: "warnings path is required"})
	}

	return errs
}

func validateLog(log *LogConfig) []FieldError {
	var errs []FieldError

	switch log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level %q, must be one of debug, info, warn, error", log.Level),
		})
	}

	switch log.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format %q, must be text or json", log.Format),
		})
	}

	return errs
}

func validateHistory(h *HistoryConfig) []FieldError {
	var errs []FieldError

	if h.Enabled && h.Path == "" {
		errs = append(errs, FieldError{Field: "history.path", Message: "database path is required when history is enabled"})
	}
	if h.MaxOpenConns < 0 {
		errs = append(errs, FieldError{Field: "history.max_open_conns", Message: "must not be negative"})
	}
	if h.MaxIdleConns < 0 {
		errs = append(errs, FieldError{Field: "history.max_idle_conns", Message: "must not be negative"})
	}
	if h.BusyTimeout < 0 {
		errs = append(errs, FieldError{Field: "history.busy_timeout", Message: "must not be negative"})
	}

	return errs
}

func validateWatch(w *WatchConfig) []FieldError {
	var errs []FieldError

	if w.DebounceInterval < 0 {
		errs = append(errs, FieldError{Field: "watch.debounce_interval", Message: "must not be negative"})
	}
	if w.Schedule != "" {
		if _, err := cron.ParseStandard(w.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", w.Schedule, err),
			})
		}
	}
	if w.MetricsListenAddress == "" {
		errs = append(errs, FieldError{Field: "watch.metrics_listen_address", Message: "listen address is required"})
	}

	return errs
}
