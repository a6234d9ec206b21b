package engine

import "fmt"

// ConfigError indicates a malformed or incomplete configuration. It aborts
// the run before any sample is processed.
type ConfigError struct {
	Message string
	Cause   error
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error { return e.Cause }

// DataLoadError indicates input data could not be read or parsed, whether
// from a local file or a remote endpoint.
type DataLoadError struct {
	Source string
	Cause  error
}

// Error returns the error message.
func (e *DataLoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("failed to load data from %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("failed to load data: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *DataLoadError) Unwrap() error { return e.Cause }

// ProcessingError indicates a failure while computing or persisting
// results, as opposed to a defect in a single rule, which is absorbed into
// FAIL/SKIP outcomes and never surfaces as an error.
type ProcessingError struct {
	Message string
	Cause   error
}

// Error returns the error message.
func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processing error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("processing error: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *ProcessingError) Unwrap() error { return e.Cause }
