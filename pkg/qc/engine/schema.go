package engine

import (
	"strconv"

	"microqc-hq/verdict/pkg/qc/table"
)

var one = 1

// RulesSchema validates the rules table. Extra columns are allowed.
var RulesSchema = table.Schema{
	Table: "rules",
	Columns: []table.ColumnSpec{
		{Name: "rule_id", Required: true, NonEmpty: true, Unique: true},
		{Name: "species", Required: true, NonEmpty: true},
		{Name: "assembly_type", Required: true, NonEmpty: true},
		{Name: "software"},
		{Name: "field", Required: true, NonEmpty: true},
		{Name: "operator", Required: true, NonEmpty: true, Allowed: Operators},
		{Name: "value", Required: true},
		{Name: "special_field"},
	},
}

// TestsSchema validates the tests (outcome definitions) table.
var TestsSchema = table.Schema{
	Table: "tests",
	Columns: []table.ColumnSpec{
		{Name: "outcome_id", Required: true, NonEmpty: true, Unique: true},
		{Name: "outcome_name", Required: true, NonEmpty: true},
		{Name: "description", Required: true},
		{Name: "priority", Required: true, NonEmpty: true, MinInt: &one},
		{Name: "passed_rule_conditions"},
		{Name: "failed_rule_conditions"},
		{Name: "action_required", Required: true, NonEmpty: true},
	},
}

// RunDataSchema validates the sample table. Beyond a unique sample_name all
// columns are free-form metrics.
var RunDataSchema = table.Schema{
	Table: "run data",
	Columns: []table.ColumnSpec{
		{Name: ColumnSampleName, Required: true, NonEmpty: true, Unique: true},
		{Name: "species"},
	},
}

// RulesFromTable validates the rules table and converts it to Rule values
// in row order.
func RulesFromTable(t *table.Table) ([]Rule, error) {
	if err := RulesSchema.Validate(t); err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(t.Records))
	for _, rec := range t.Records {
		rules = append(rules, Rule{
			ID:           rec.Value("rule_id"),
			Species:      rec.Value("species"),
			AssemblyType: rec.Value("assembly_type"),
			Software:     rec.Value("software"),
			Field:        rec.Value("field"),
			Operator:     rec.Value("operator"),
			Value:        rec.Value("value"),
			SpecialField: rec.Value("special_field"),
		})
	}
	return rules, nil
}

// TestsFromTable validates the tests table and converts it to Test values
// in row order. Table order is significant: outcomes are evaluated in it.
func TestsFromTable(t *table.Table) ([]Test, error) {
	if err := TestsSchema.Validate(t); err != nil {
		return nil, err
	}

	tests := make([]Test, 0, len(t.Records))
	for _, rec := range t.Records {
		// Parse already validated by the schema.
		priority, _ := strconv.Atoi(rec.Value("priority"))
		tests = append(tests, Test{
			OutcomeID:            rec.Value("outcome_id"),
			Name:                 rec.Value("outcome_name"),
			Description:          rec.Value("description"),
			Priority:             priority,
			PassedRuleConditions: rec.Value("passed_rule_conditions"),
			FailedRuleConditions: rec.Value("failed_rule_conditions"),
			ActionRequired:       rec.Value("action_required"),
		})
	}
	return tests, nil
}
