package loader

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"microqc-hq/verdict/pkg/qc/engine"
	"microqc-hq/verdict/pkg/qc/table"
)

// Reference bundles the read-only reference data for one run.
type Reference struct {
	// Rules is the validated rule table in evaluation order.
	Rules []engine.Rule

	// Tests is the validated outcome definition table in evaluation order.
	Tests []engine.Test

	// Mapping is the parsed mapping configuration.
	Mapping *engine.MappingConfig
}

// LoadReference loads and validates the rules table, the tests table, and
// the mapping configuration.
func LoadReference(rulesPath, testsPath, mappingPath string, logger *slog.Logger) (*Reference, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "qc.loader")

	rules, err := LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	logger.Info("QC rules loaded", "rules", len(rules), "path", rulesPath)

	tests, err := LoadTests(testsPath)
	if err != nil {
		return nil, err
	}
	logger.Info("QC tests loaded", "tests", len(tests), "path", testsPath)

	mapping, err := LoadMapping(mappingPath)
	if err != nil {
		return nil, err
	}
	logger.Info("mapping configuration loaded",
		"path", mappingPath,
		"sections", len(mapping.Sections),
		"overrides", len(mapping.Overrides),
	)

	return &Reference{Rules: rules, Tests: tests, Mapping: mapping}, nil
}

// LoadRules reads and validates the rules table.
func LoadRules(path string) ([]engine.Rule, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, &engine.DataLoadError{Source: path, Cause: err}
	}

	rules, err := engine.RulesFromTable(t)
	if err != nil {
		return nil, fmt.Errorf("rules table %q: %w", path, err)
	}
	return rules, nil
}

// LoadTests reads and validates the tests table.
func LoadTests(path string) ([]engine.Test, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, &engine.DataLoadError{Source: path, Cause: err}
	}

	tests, err := engine.TestsFromTable(t)
	if err != nil {
		return nil, fmt.Errorf("tests table %q: %w", path, err)
	}
	return tests, nil
}

// LoadMapping reads and parses the mapping configuration YAML.
func LoadMapping(path string) (*engine.MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &engine.ConfigError{
			Message: fmt.Sprintf("failed to read mapping configuration %q", path),
			Cause:   err,
		}
	}

	var mapping engine.MappingConfig
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, &engine.ConfigError{
			Message: fmt.Sprintf("failed to parse mapping configuration %q", path),
			Cause:   err,
		}
	}

	return &mapping, nil
}
