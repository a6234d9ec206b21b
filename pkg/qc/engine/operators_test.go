package engine

import (
	"log/slog"
	"testing"
)

func TestEvaluate_Operators(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		operator  string
		threshold string
		want      bool
	}{
		{name: "equal match", value: "complete", operator: OpEqual, threshold: "complete", want: true},
		{name: "equal mismatch", value: "partial", operator: OpEqual, threshold: "complete", want: false},
		{name: "equal is textual not numeric", value: "30.0", operator: OpEqual, threshold: "30", want: false},
		{name: "not equal match", value: "partial", operator: OpNotEqual, threshold: "complete", want: true},
		{name: "not equal mismatch", value: "complete", operator: OpNotEqual, threshold: "complete", want: false},

		{name: "greater true", value: "50", operator: OpGreater, threshold: "30", want: true},
		{name: "greater at boundary", value: "30", operator: OpGreater, threshold: "30", want: false},
		{name: "less true", value: "10", operator: OpLess, threshold: "30", want: true},
		{name: "less at boundary", value: "30", operator: OpLess, threshold: "30", want: false},
		{name: "greater equal at boundary", value: "30", operator: OpGreaterEqual, threshold: "30", want: true},
		{name: "greater equal below", value: "29.9", operator: OpGreaterEqual, threshold: "30", want: false},
		{name: "less equal at boundary", value: "30", operator: OpLessEqual, threshold: "30", want: true},
		{name: "less equal above", value: "30.1", operator: OpLessEqual, threshold: "30", want: false},
		{name: "numeric accepts floats", value: "97.53", operator: OpGreaterEqual, threshold: "95", want: true},
		{name: "numeric accepts surrounding whitespace", value: " 42 ", operator: OpGreater, threshold: "40", want: true},

		{name: "non-numeric sample value fails", value: "abc", operator: OpGreater, threshold: "30", want: false},
		{name: "non-numeric threshold fails", value: "30", operator: OpGreater, threshold: "abc", want: false},

		{name: "regex prefix match", value: "Escherichia coli", operator: OpRegex, threshold: "Escherichia", want: true},
		{name: "regex anchored at start", value: "coli Escherichia", operator: OpRegex, threshold: "Escherichia", want: false},
		{name: "regex not full match", value: "Escherichia coli O157", operator: OpRegex, threshold: "Escherichia coli", want: true},
		{name: "regex alternation stays anchored", value: "Shigella flexneri", operator: OpRegex, threshold: "Escherichia|Shigella", want: true},
		{name: "regex invalid pattern fails", value: "anything", operator: OpRegex, threshold: "(", want: false},
		{name: "regex null pattern fails", value: "anything", operator: OpRegex, threshold: "null", want: false},

		{name: "contains match", value: "spades-3.15.2", operator: OpContains, threshold: "spades", want: true},
		{name: "contains mismatch", value: "skesa-2.4", operator: OpContains, threshold: "spades", want: false},

		{name: "unknown operator fails", value: "30", operator: "~=", threshold: "30", want: false},
	}

	e := NewEvaluator(slog.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.value, tt.operator, tt.threshold, "metric")
			if got != tt.want {
				t.Errorf("Evaluate(%q, %q, %q) = %v, want %v",
					tt.value, tt.operator, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestEvaluate_NullValuesFailEveryOperator(t *testing.T) {
	e := NewEvaluator(slog.Default())

	for _, value := range []string{"", "null", "NULL", "None", "none", "NaN", "nan"} {
		for _, op := range Operators {
			if e.Evaluate(value, op, "anything", "metric") {
				t.Errorf("Evaluate(%q, %q, ...) = true, want false for null marker", value, op)
			}
		}
	}
}

func TestIsNullMarker(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"null", true},
		{"NULL", true},
		{"None", true},
		{"NaN", true},
		{"0", false},
		{"false", false},
		{"nil", false},
		{" ", false},
	}

	for _, tt := range tests {
		if got := isNullMarker(tt.value); got != tt.want {
			t.Errorf("isNullMarker(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
