// Verdict is a quality-control rule engine for microbial sequencing runs.
//
// It evaluates tabular per-sample QC metrics against an operator-driven
// rule table, combines rule results into named outcomes, and resolves a
// follow-up action per sample.
//
// Usage:
//
//	# Run QC once with the default configuration
//	verdict run
//
//	# Run with a custom configuration file
//	verdict run --config /path/to/config.yaml
//
//	# Re-run automatically when input files change
//	verdict watch
//
//	# Check the configuration and reference tables without processing
//	verdict validate
//
//	# Inspect recorded runs
//	verdict history list
//	verdict history show <run-id>
package main

func main() {
	Execute()
}
