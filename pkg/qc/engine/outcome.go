package engine

import "strings"

// DetermineOutcomes evaluates every configured test, in table order,
// against the failed and passed rule-ID lists of one sample and returns the
// outcome IDs that fired.
//
// Each test combines two independent conditions (AND between them, each
// defaulting to satisfied when absent):
//
//   - passed_rule_conditions: none of the listed rules may have failed, and
//     at least one of them must have been evaluated at all. If every listed
//     rule was skipped the condition is NOT satisfied; it does not hold
//     vacuously. This keeps samples with many skipped rules from being
//     promoted to outcomes their data cannot support.
//   - failed_rule_conditions: at least one listed rule failed (pure OR).
//
// A test with both condition columns empty is the "no failures at all"
// case: it fires iff the failed list is empty.
//
// When no test fired but at least one rule failed, the generic
// FallbackOutcome is appended. When no test fired and nothing failed, the
// returned slice is empty; the caller substitutes the PASS sentinel at
// serialization time.
func DetermineOutcomes(failedRules, passedRules []string, tests []Test) []string {
	failed := toSet(failedRules)
	passed := toSet(passedRules)

	var outcomes []string
	for _, test := range tests {
		passedConds := splitRuleList(test.PassedRuleConditions)
		failedConds := splitRuleList(test.FailedRuleConditions)

		if len(passedConds) == 0 && len(failedConds) == 0 {
			if len(failedRules) == 0 {
				outcomes = append(outcomes, test.OutcomeID)
			}
			continue
		}

		passedMatch := true
		if len(passedConds) > 0 {
			passedMatch = noneFailed(passedConds, failed, passed)
		}

		failedMatch := true
		if len(failedConds) > 0 {
			failedMatch = anyFailed(failedConds, failed)
		}

		if passedMatch && failedMatch {
			outcomes = append(outcomes, test.OutcomeID)
		}
	}

	if len(outcomes) == 0 && len(failedRules) > 0 {
		outcomes = append(outcomes, FallbackOutcome)
	}

	return outcomes
}

// noneFailed implements the passed_rule_conditions semantics: at least one
// listed rule evaluated, and none of them failed.
func noneFailed(ruleIDs []string, failed, passed map[string]struct{}) bool {
	anyEvaluated := false
	for _, id := range ruleIDs {
		if _, ok := failed[id]; ok {
			return false
		}
		if _, ok := passed[id]; ok {
			anyEvaluated = true
		}
	}
	return anyEvaluated
}

// anyFailed implements the failed_rule_conditions OR semantics.
func anyFailed(ruleIDs []string, failed map[string]struct{}) bool {
	for _, id := range ruleIDs {
		if _, ok := failed[id]; ok {
			return true
		}
	}
	return false
}

// splitRuleList parses a comma-separated rule-ID list, trimming whitespace
// and dropping empty entries. A blank or null-marker column yields nil.
func splitRuleList(s string) []string {
	if isNullMarker(strings.TrimSpace(s)) {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
