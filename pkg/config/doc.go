// Package config defines the verdict configuration model and its loading
// pipeline: parse YAML, apply defaults, apply environment overrides, then
// validate.
//
// Validation collects every field error before returning, so a broken
// configuration reports all problems at once instead of one per run.
// Environment variables use the VERDICT_SECTION_FIELD convention (for
// example VERDICT_QC_RULES) and always take precedence over the file.
package config
