package engine

import (
	"sort"
	"sync"
	"time"
)

// RuleStatus is the result of evaluating a single rule against a sample.
type RuleStatus string

const (
	// StatusPass indicates the rule's comparison held.
	StatusPass RuleStatus = "PASS"

	// StatusFail indicates the comparison did not hold, including missing
	// or non-coercible values.
	StatusFail RuleStatus = "FAIL"

	// StatusSkip indicates the rule could not be evaluated because its
	// resolved column is absent from the sample data. Skipped rules count
	// toward neither the failed nor the passed rule list.
	StatusSkip RuleStatus = "SKIP"
)

// Wildcard matches any species or assembly type in a rule scope.
const Wildcard = "all"

// PassOutcome is the sentinel written to qc_outcome when no test fired and
// no rule failed. It doubles as the outcome_id looked up in the test table
// to find the action for clean samples.
const PassOutcome = "PASS"

// FallbackOutcome is the generic outcome appended when at least one rule
// failed but no configured test matched.
const FallbackOutcome = "FAIL"

// NoAction is returned when no action can be resolved from the test table.
const NoAction = "none"

// ColumnSampleName is the required sample identifier column.
const ColumnSampleName = "sample_name"

// Result column names appended to each processed sample row.
const (
	ColumnFailedRules = "failed_rules"
	ColumnPassedRules = "passed_rules"
	ColumnQCOutcome   = "qc_outcome"
	ColumnQCAction    = "qc_action"
)

// Rule is one atomic threshold or pattern check against a sample field,
// scoped by species, assembly type, and software. Rules are read-only
// reference data, loaded once per run.
type Rule struct {
	// ID uniquely identifies the rule within the rule table.
	ID string

	// Species scopes the rule to one species, or Wildcard for all.
	Species string

	// AssemblyType scopes the rule to one assembly type, or Wildcard.
	AssemblyType string

	// Software names the tool that produced the metric; empty when the
	// rule is software-agnostic.
	Software string

	// Field is the logical field name resolved through the field mapping.
	Field string

	// Operator is one of =, !=, >, <, >=, <=, regex, contains.
	Operator string

	// Value is the threshold or pattern, kept as text.
	Value string

	// SpecialField is carried through unchanged; evaluation ignores it.
	SpecialField string
}

// Test is a named outcome definition fired by a boolean combination over
// which rules failed and passed for a sample.
type Test struct {
	// OutcomeID uniquely identifies the outcome within the test table.
	OutcomeID string

	// Name is the display name for the outcome.
	Name string

	// Description explains when the outcome applies.
	Description string

	// Priority orders outcomes; higher values are more severe. The action
	// of the highest-priority fired outcome wins.
	Priority int

	// PassedRuleConditions is a comma-separated rule-ID list with
	// none-failed semantics: the condition holds iff at least one listed
	// rule was evaluated and none of them failed.
	PassedRuleConditions string

	// FailedRuleConditions is a comma-separated rule-ID list with OR
	// semantics: the condition holds iff any listed rule failed.
	FailedRuleConditions string

	// ActionRequired is the operational directive tied to this outcome.
	ActionRequired string
}

// SampleAttributes are the per-sample values the rule matcher filters on,
// with defaults applied from the QC overrides.
type SampleAttributes struct {
	Species      string
	AssemblyType string
}

// Overrides are run-level defaults and constraints from the mapping
// configuration, with scalar values normalized to singleton lists.
type Overrides map[string][]string

// Override keys recognized by the engine.
const (
	OverrideAssemblyType = "assembly_type"
	OverrideSoftware     = "software"
)

// DefaultAssemblyType is assumed when neither the sample nor the overrides
// name one.
const DefaultAssemblyType = "short"

// AssemblyTypeDefault returns the default assembly type for samples that
// omit the column: the first configured override value, or "short".
func (o Overrides) AssemblyTypeDefault() string {
	if vals := o[OverrideAssemblyType]; len(vals) > 0 {
		return vals[0]
	}
	return DefaultAssemblyType
}

// AllowedSoftware returns the configured allowed-software list and whether
// the constraint is present at all. When absent, the software filter is not
// enforced.
func (o Overrides) AllowedSoftware() ([]string, bool) {
	vals, ok := o[OverrideSoftware]
	return vals, ok
}

// Accumulator collects run-wide warnings and skipped rule IDs. Both sets are
// deduplicated (warnings by message text, regardless of which sample raised
// them) and safe for concurrent use. One Accumulator belongs to exactly one
// run; it is never shared across runs.
type Accumulator struct {
	mu       sync.Mutex
	warnings map[string]struct{}
	skipped  map[string]struct{}
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		warnings: make(map[string]struct{}),
		skipped:  make(map[string]struct{}),
	}
}

// AddWarning records a warning message once per distinct message text.
func (a *Accumulator) AddWarning(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnings[msg] = struct{}{}
}

// AddSkippedRule records a rule ID that could not be evaluated.
func (a *Accumulator) AddSkippedRule(ruleID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.skipped[ruleID] = struct{}{}
}

// Warnings returns the unique warning messages in sorted order.
func (a *Accumulator) Warnings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sortedKeys(a.warnings)
}

// SkippedRules returns the unique skipped rule IDs in sorted order.
func (a *Accumulator) SkippedRules() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sortedKeys(a.skipped)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RuleCount pairs a rule ID with how many samples failed it.
type RuleCount struct {
	RuleID string
	Count  int
}

// Summary aggregates a completed run for reporting.
type Summary struct {
	// Samples is the number of processed samples.
	Samples int

	// OutcomeCounts maps each fired outcome ID to the number of samples it
	// fired for. The PASS sentinel is not counted.
	OutcomeCounts map[string]int

	// ActionCounts maps each resolved action to its sample count.
	ActionCounts map[string]int

	// TopFailedRules lists the most frequently failed rules, most common
	// first, capped at ten entries. Ties order alphabetically by rule ID.
	TopFailedRules []RuleCount

	// Warnings are the unique processing warnings, sorted.
	Warnings []string

	// SkippedRules are the unique skipped rule IDs, sorted.
	SkippedRules []string

	// Duration is the wall-clock time of the processing stage.
	Duration time.Duration
}

// KeyCount pairs a summary map key with its sample count.
type KeyCount struct {
	Key   string
	Count int
}

// SortedCounts flattens a count map for display, sorted by key.
func SortedCounts(counts map[string]int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for _, key := range sortedMapKeys(counts) {
		out = append(out, KeyCount{Key: key, Count: counts[key]})
	}
	return out
}

func sortedMapKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
