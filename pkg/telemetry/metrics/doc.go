// Package metrics exposes Prometheus metrics for the QC engine: samples
// processed, per-status rule evaluations, fired outcomes, resolved actions,
// and run durations. The Collector implements the engine's Recorder
// interface and serves its registry over HTTP in watch mode.
package metrics
