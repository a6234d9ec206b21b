// Package logging provides the structured logger used across verdict,
// built on log/slog with configurable level, text or JSON format, and an
// optional log file alongside stderr.
package logging
