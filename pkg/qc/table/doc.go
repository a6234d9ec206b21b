// Package table implements the tab-separated tabular data model shared by
// the QC engine and its loaders.
//
// A Table is an ordered set of column names plus a list of Records. Records
// preserve column order and round-trip unknown columns unchanged, so sample
// metrics that no rule references survive into the results file.
//
// The package also provides declarative schema validation (required columns,
// uniqueness, enumerated values, integer bounds) used to reject malformed
// rules, tests, and run-data tables before any sample is processed, and a
// writer for the warnings table that always emits a header row even when no
// warnings were collected.
package table
