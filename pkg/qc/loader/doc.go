// Package loader acquires the engine's inputs: the rules, tests, and
// mapping reference data, and the per-run sample table from either a local
// tab-separated file or a remote JSON endpoint.
//
// All I/O happens here, before processing starts; the engine itself never
// touches the filesystem or the network. Load failures surface as the
// engine's typed errors (ConfigError, DataLoadError, or a table schema
// error) so the CLI can fail fast with a non-zero exit before any sample is
// evaluated.
package loader
