// Package manager orchestrates QC runs around the engine: single runs for
// the CLI, plus watch mode where input file changes and an optional cron
// schedule re-trigger processing. It owns the wiring of loader, engine,
// output files, history recording, and metrics serving.
package manager
