package manager

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"microqc-hq/verdict/pkg/config"
	"microqc-hq/verdict/pkg/qc/table"
)

const runnerRulesTSV = "rule_id\tspecies\tassembly_type\tsoftware\tfield\toperator\tvalue\tspecial_field\n" +
	"R1\tall\tall\t\tcoverage\t>=\t30\t\n"

const runnerTestsTSV = "outcome_id\toutcome_name\tdescription\tpriority\tpassed_rule_conditions\tfailed_rule_conditions\taction_required\n" +
	"PASS\tPass\tAll checks passed\t1\t\t\trelease\n" +
	"LOW_COV\tLow coverage\tCoverage below threshold\t3\t\tR1\tresequence\n"

const runnerMappingYAML = `
Sections:
  assembly:
    coverage:
      QC:
        mapping: coverage
      data:
        mapping: mean_coverage
`

const runnerDataTSV = "sample_name\tspecies\tmean_coverage\n" +
	"s1\tEscherichia coli\t45\n" +
	"s2\tEscherichia coli\t12\n"

func runnerConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	cfg := &config.Config{Title: "runner test"}
	cfg.QC.Input.QCRules = write("qc_rules.tsv", runnerRulesTSV)
	cfg.QC.Input.QCTests = write("qc_tests.tsv", runnerTestsTSV)
	cfg.QC.Input.Mapping = write("mapping.yaml", runnerMappingYAML)
	cfg.QC.Input.Data.File = write("run_data.tsv", runnerDataTSV)
	cfg.QC.Output.Results = filepath.Join(dir, "qc_results.tsv")
	cfg.QC.Output.Warnings = filepath.Join(dir, "qc_warnings.tsv")
	config.ApplyDefaults(cfg)
	return cfg
}

func TestRunner_RunOnce(t *testing.T) {
	cfg := runnerConfig(t)
	runner := NewRunner(cfg, nil, nil, nil)

	summary, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if summary.Samples != 2 {
		t.Errorf("Samples = %d, want 2", summary.Samples)
	}
	if summary.OutcomeCounts["LOW_COV"] != 1 {
		t.Errorf("OutcomeCounts = %v", summary.OutcomeCounts)
	}
	if summary.ActionCounts["release"] != 1 || summary.ActionCounts["resequence"] != 1 {
		t.Errorf("ActionCounts = %v", summary.ActionCounts)
	}

	results, err := table.ReadFile(cfg.QC.Output.Results)
	if err != nil {
		t.Fatalf("failed to read results: %v", err)
	}
	if len(results.Records) != 2 {
		t.Fatalf("got %d result rows, want 2", len(results.Records))
	}
	if got := results.Records[0].Value("qc_outcome"); got != "PASS" {
		t.Errorf("s1 qc_outcome = %q, want PASS", got)
	}
	if got := results.Records[1].Value("qc_action"); got != "resequence" {
		t.Errorf("s2 qc_action = %q, want resequence", got)
	}

	// The warnings table exists even without warnings.
	data, err := os.ReadFile(cfg.QC.Output.Warnings)
	if err != nil {
		t.Fatalf("failed to read warnings: %v", err)
	}
	if !strings.HasPrefix(string(data), "warning_type\t") {
		t.Errorf("warnings file = %q", data)
	}
}

func TestRunner_RunOnce_BadReference(t *testing.T) {
	cfg := runnerConfig(t)
	cfg.QC.Input.QCRules = filepath.Join(t.TempDir(), "absent.tsv")

	runner := NewRunner(cfg, nil, nil, nil)
	if _, err := runner.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error for missing rules table")
	}
}

func TestManager_WatchPaths(t *testing.T) {
	cfg := runnerConfig(t)
	m := New(cfg, nil, nil, nil)

	paths := m.watchPaths()
	if len(paths) != 4 {
		t.Errorf("got %d watch paths, want 4: %v", len(paths), paths)
	}

	cfg.QC.Input.Data.File = ""
	cfg.QC.Input.Data.APICall = "https://lims.example.org/runs"
	if got := len(m.watchPaths()); got != 3 {
		t.Errorf("got %d watch paths with endpoint source, want 3", got)
	}
}
