// Package cli provides shared helpers for the verdict commands: typed
// command errors, shutdown signal handling, and output formatting.
package cli
