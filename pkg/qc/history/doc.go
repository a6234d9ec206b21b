// Package history persists an audit trail of QC runs to SQLite: one record
// per run with its aggregate counts, plus the per-sample verdicts, keyed by
// a generated run ID. The store backs the `verdict history` command and is
// optional; runs work identically with it disabled.
package history
