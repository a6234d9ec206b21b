package engine

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"microqc-hq/verdict/pkg/qc/table"
)

func testMapping() *MappingConfig {
	return &MappingConfig{
		Sections: []Section{
			{
				Name: "assembly",
				Fields: []FieldDef{
					{Name: "coverage", QCNames: []string{"coverage"}, DataColumn: "mean_coverage"},
					{Name: "genome_size", QCNames: []string{"Genome Size"}, DataColumn: "total_length"},
				},
			},
		},
		Overrides: make(Overrides),
	}
}

func testTable(columns []string, rows ...[]string) *table.Table {
	t := &table.Table{Columns: columns}
	for _, row := range rows {
		rec := table.NewRecord(columns)
		for i, col := range columns {
			if i < len(row) {
				rec.Set(col, row[i])
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

func TestProcessor_RulePasses(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "PASS1", Species: Wildcard, AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "30"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "species", "mean_coverage"},
		[]string{"s1", "Escherichia coli", "30"},
	)

	results, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rec := results.Records[0]
	if got := rec.Value(ColumnPassedRules); got != "PASS1" {
		t.Errorf("passed_rules = %q, want PASS1", got)
	}
	if got := rec.Value(ColumnFailedRules); got != "" {
		t.Errorf("failed_rules = %q, want empty", got)
	}
	if got := rec.Value(ColumnQCOutcome); got != PassOutcome {
		t.Errorf("qc_outcome = %q, want %q", got, PassOutcome)
	}
}

func TestProcessor_MissingFieldSkipsRule(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R3", Species: Wildcard, AssemblyType: Wildcard, Field: "Missing Metric", Operator: OpGreater, Value: "1"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "species"},
		[]string{"s1", "Escherichia coli"},
	)

	results, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rec := results.Records[0]
	if got := rec.Value(ColumnFailedRules); got != "" {
		t.Errorf("failed_rules = %q, want empty (skipped rule joins neither list)", got)
	}
	if got := rec.Value(ColumnPassedRules); got != "" {
		t.Errorf("passed_rules = %q, want empty", got)
	}

	skipped := p.Accumulator().SkippedRules()
	if !reflect.DeepEqual(skipped, []string{"R3"}) {
		t.Errorf("skipped rules = %v, want [R3]", skipped)
	}

	warnings := p.Accumulator().Warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "no mapping defined in config") {
		t.Errorf("warning %q does not mention the missing mapping", warnings[0])
	}
}

func TestProcessor_MappedFieldMissingFromData(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R1", Species: Wildcard, AssemblyType: Wildcard, Field: "Genome Size", Operator: OpGreater, Value: "4000000"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "species"},
		[]string{"s1", "Escherichia coli"},
	)

	if _, err := p.Process(data); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	warnings := p.Accumulator().Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], `mapped to "total_length"`) {
		t.Errorf("warnings = %v, want one naming the mapped column", warnings)
	}
}

func TestProcessor_OutcomeAndActionResolution(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R1", Species: Wildcard, AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "30"},
			{ID: "R3", Species: Wildcard, AssemblyType: Wildcard, Field: "Genome Size", Operator: OpLess, Value: "6000000"},
		},
		Tests: []Test{
			{OutcomeID: "WARN_TEST", Priority: 2, FailedRuleConditions: "R1,R2", ActionRequired: "review"},
			{OutcomeID: "FAIL_TEST", Priority: 3, FailedRuleConditions: "R3", ActionRequired: "reject"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "species", "mean_coverage", "total_length"},
		[]string{"s1", "Escherichia coli", "12", "7000000"},
	)

	results, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rec := results.Records[0]
	if got := rec.Value(ColumnFailedRules); got != "R1,R3" {
		t.Errorf("failed_rules = %q, want R1,R3", got)
	}
	if got := rec.Value(ColumnQCOutcome); got != "WARN_TEST,FAIL_TEST" {
		t.Errorf("qc_outcome = %q, want WARN_TEST,FAIL_TEST", got)
	}
	if got := rec.Value(ColumnQCAction); got != "reject" {
		t.Errorf("qc_action = %q, want reject", got)
	}
}

func TestProcessor_FallbackOutcome(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R99", Species: Wildcard, AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "30"},
		},
		Tests: []Test{
			{OutcomeID: "WARN_TEST", Priority: 2, FailedRuleConditions: "R1", ActionRequired: "review"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "mean_coverage"},
		[]string{"s1", "5"},
	)

	results, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rec := results.Records[0]
	if got := rec.Value(ColumnQCOutcome); got != FallbackOutcome {
		t.Errorf("qc_outcome = %q, want %q", got, FallbackOutcome)
	}
	if got := rec.Value(ColumnQCAction); got != NoAction {
		t.Errorf("qc_action = %q, want %q", got, NoAction)
	}
}

func TestProcessor_CleanSampleTakesPassAction(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R1", Species: Wildcard, AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "30"},
		},
		Tests: []Test{
			{OutcomeID: "PASS", Priority: 1, ActionRequired: "release"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "mean_coverage"},
		[]string{"s1", "45"},
	)

	results, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	rec := results.Records[0]
	if got := rec.Value(ColumnQCOutcome); got != PassOutcome {
		t.Errorf("qc_outcome = %q, want %q", got, PassOutcome)
	}
	if got := rec.Value(ColumnQCAction); got != "release" {
		t.Errorf("qc_action = %q, want release", got)
	}
}

func TestProcessor_SpeciesScopedRules(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "ECOLI1", Species: "Escherichia coli", AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "40"},
			{ID: "ANY1", Species: Wildcard, AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "20"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "species", "mean_coverage"},
		[]string{"s1", "Escherichia coli", "30"},
		[]string{"s2", "Salmonella enterica", "30"},
	)

	results, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// The species-scoped rule applies only to the E. coli sample.
	if got := results.Records[0].Value(ColumnFailedRules); got != "ECOLI1" {
		t.Errorf("s1 failed_rules = %q, want ECOLI1", got)
	}
	if got := results.Records[1].Value(ColumnFailedRules); got != "" {
		t.Errorf("s2 failed_rules = %q, want empty", got)
	}
	if got := results.Records[1].Value(ColumnPassedRules); got != "ANY1" {
		t.Errorf("s2 passed_rules = %q, want ANY1", got)
	}
}

func TestProcessor_InputNotMutated(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R1", Species: Wildcard, AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "30"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "mean_coverage"},
		[]string{"s1", "45"},
	)

	if _, err := p.Process(data); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if data.HasColumn(ColumnQCOutcome) {
		t.Error("input table gained a result column")
	}
	if data.Records[0].Has(ColumnQCOutcome) {
		t.Error("input record gained a result column")
	}
}

func TestProcessor_RejectsInvalidRunData(t *testing.T) {
	p := New(Config{Mapping: testMapping()})

	data := testTable(
		[]string{"species"},
		[]string{"Escherichia coli"},
	)

	if _, err := p.Process(data); err == nil {
		t.Fatal("expected error for run data without sample_name")
	}
}

func TestProcessor_WarningRows(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R3", Species: Wildcard, AssemblyType: Wildcard, Field: "Missing Metric", Operator: OpGreater, Value: "1"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name"},
		[]string{"s1"},
		[]string{"s2"},
	)

	if _, err := p.Process(data); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	now := time.Now()
	rows := p.WarningRows(now)
	// One deduplicated processing warning plus one skipped-rule row,
	// regardless of how many samples hit the missing field.
	if len(rows) != 2 {
		t.Fatalf("got %d warning rows, want 2: %v", len(rows), rows)
	}
	if rows[0].Type != table.WarningTypeProcessing {
		t.Errorf("rows[0].Type = %q, want %q", rows[0].Type, table.WarningTypeProcessing)
	}
	if rows[1].Type != table.WarningTypeSkippedRule {
		t.Errorf("rows[1].Type = %q, want %q", rows[1].Type, table.WarningTypeSkippedRule)
	}
	if !strings.Contains(rows[1].Message, "R3") {
		t.Errorf("skipped-rule row %q does not name the rule", rows[1].Message)
	}
}

func TestProcessor_Summarize(t *testing.T) {
	p := New(Config{
		Rules: []Rule{
			{ID: "R1", Species: Wildcard, AssemblyType: Wildcard, Field: "coverage", Operator: OpGreaterEqual, Value: "30"},
		},
		Tests: []Test{
			{OutcomeID: "LOW_COV", Priority: 2, FailedRuleConditions: "R1", ActionRequired: "resequence"},
			{OutcomeID: "PASS", Priority: 1, ActionRequired: "release"},
		},
		Mapping: testMapping(),
	})

	data := testTable(
		[]string{"sample_name", "mean_coverage"},
		[]string{"s1", "45"},
		[]string{"s2", "10"},
		[]string{"s3", "5"},
	)

	results, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	s := p.Summarize(results)
	if s.Samples != 3 {
		t.Errorf("Samples = %d, want 3", s.Samples)
	}
	if got := s.OutcomeCounts["LOW_COV"]; got != 2 {
		t.Errorf("OutcomeCounts[LOW_COV] = %d, want 2", got)
	}
	if got := s.ActionCounts["resequence"]; got != 2 {
		t.Errorf("ActionCounts[resequence] = %d, want 2", got)
	}
	if got := s.ActionCounts["release"]; got != 1 {
		t.Errorf("ActionCounts[release] = %d, want 1", got)
	}
	if len(s.TopFailedRules) != 1 || s.TopFailedRules[0] != (RuleCount{RuleID: "R1", Count: 2}) {
		t.Errorf("TopFailedRules = %v, want [{R1 2}]", s.TopFailedRules)
	}
}
