package engine

import (
	"strings"
	"testing"

	"microqc-hq/verdict/pkg/qc/table"
)

func TestRulesFromTable(t *testing.T) {
	data := testTable(
		[]string{"rule_id", "species", "assembly_type", "software", "field", "operator", "value", "special_field"},
		[]string{"R1", "all", "short", "spades", "coverage", ">=", "30", ""},
		[]string{"R2", "Escherichia coli", "all", "", "Genome Size", "<", "6000000", ""},
	)

	rules, err := RulesFromTable(data)
	if err != nil {
		t.Fatalf("RulesFromTable failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}

	want := Rule{ID: "R1", Species: "all", AssemblyType: "short", Software: "spades",
		Field: "coverage", Operator: ">=", Value: "30"}
	if rules[0] != want {
		t.Errorf("rules[0] = %+v, want %+v", rules[0], want)
	}
}

func TestRulesFromTable_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		table   *table.Table
		wantErr string
	}{
		{
			name: "missing required column",
			table: testTable(
				[]string{"rule_id", "species", "assembly_type", "field", "value"},
				[]string{"R1", "all", "short", "coverage", "30"},
			),
			wantErr: "operator",
		},
		{
			name: "duplicate rule IDs",
			table: testTable(
				[]string{"rule_id", "species", "assembly_type", "field", "operator", "value"},
				[]string{"R1", "all", "short", "coverage", ">=", "30"},
				[]string{"R1", "all", "short", "coverage", "<", "100"},
			),
			wantErr: "duplicate",
		},
		{
			name: "unknown operator",
			table: testTable(
				[]string{"rule_id", "species", "assembly_type", "field", "operator", "value"},
				[]string{"R1", "all", "short", "coverage", "between", "30"},
			),
			wantErr: "operator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RulesFromTable(tt.table)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestTestsFromTable(t *testing.T) {
	data := testTable(
		[]string{"outcome_id", "outcome_name", "description", "priority", "passed_rule_conditions", "failed_rule_conditions", "action_required"},
		[]string{"PASS", "Pass", "All checks passed", "1", "", "", "release"},
		[]string{"LOW_COV", "Low coverage", "Coverage below threshold", "3", "", "R1", "resequence"},
	)

	tests, err := TestsFromTable(data)
	if err != nil {
		t.Fatalf("TestsFromTable failed: %v", err)
	}
	if len(tests) != 2 {
		t.Fatalf("got %d tests, want 2", len(tests))
	}
	if tests[1].Priority != 3 {
		t.Errorf("priority = %d, want 3", tests[1].Priority)
	}
	if tests[1].FailedRuleConditions != "R1" {
		t.Errorf("failed_rule_conditions = %q, want R1", tests[1].FailedRuleConditions)
	}
}

func TestTestsFromTable_RejectsBadPriority(t *testing.T) {
	for _, priority := range []string{"0", "-1", "first"} {
		data := testTable(
			[]string{"outcome_id", "outcome_name", "description", "priority", "action_required"},
			[]string{"T1", "Test", "desc", priority, "review"},
		)
		if _, err := TestsFromTable(data); err == nil {
			t.Errorf("priority %q: expected validation error", priority)
		}
	}
}
