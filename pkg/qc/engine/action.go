package engine

// ResolveAction picks the action tied to the highest-priority outcome among
// those that fired.
//
// With no fired outcomes (the all-pass case) the action comes from the test
// table entry whose outcome_id is the PASS sentinel, falling back to the
// literal "none" when no such test exists. Otherwise the action of the
// strictly highest priority wins; ties keep the first highest encountered.
// Outcome IDs absent from the test table (such as the generic fallback
// FAIL) contribute nothing to the scan.
func ResolveAction(outcomes []string, tests []Test) string {
	if len(outcomes) == 0 {
		for _, test := range tests {
			if test.OutcomeID == PassOutcome {
				return test.ActionRequired
			}
		}
		return NoAction
	}

	byID := make(map[string]Test, len(tests))
	for _, test := range tests {
		byID[test.OutcomeID] = test
	}

	highest := 0
	action := NoAction
	for _, id := range outcomes {
		test, ok := byID[id]
		if !ok {
			continue
		}
		if test.Priority > highest {
			highest = test.Priority
			action = test.ActionRequired
		}
	}

	return action
}
