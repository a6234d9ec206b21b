package engine

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Comparison operators accepted in the rule table.
const (
	OpEqual        = "="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpRegex        = "regex"
	OpContains     = "contains"
)

// Operators lists every operator the evaluator understands, in rule-table
// enum order.
var Operators = []string{OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpRegex, OpContains}

// Evaluator applies comparison operators between sample values and rule
// thresholds. It never returns an error and never panics: missing data,
// coercion failures, and unknown operators all evaluate to false, with a
// diagnostic on the logger.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator creates an operator evaluator.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger}
}

// isNullMarker reports whether a value represents missing data: empty, or a
// textual null marker, case-insensitive.
func isNullMarker(v string) bool {
	switch strings.ToLower(v) {
	case "", "null", "none", "nan":
		return true
	}
	return false
}

// Evaluate applies operator between value and threshold. Missing data never
// silently passes: a null value fails every operator.
func (e *Evaluator) Evaluate(value, operator, threshold, field string) bool {
	if isNullMarker(value) {
		e.logger.Debug("null or missing value, rule fails",
			"field", field,
			"operator", operator,
		)
		return false
	}

	switch operator {
	case OpGreaterEqual, OpLessEqual, OpGreater, OpLess:
		return e.compareNumeric(value, operator, threshold, field)

	case OpEqual:
		return value == threshold

	case OpNotEqual:
		return value != threshold

	case OpRegex:
		return e.matchRegex(value, threshold, field)

	case OpContains:
		return strings.Contains(value, threshold)

	default:
		e.logger.Warn("unknown operator, rule fails",
			"operator", operator,
			"field", field,
		)
		return false
	}
}

// compareNumeric coerces both operands to floating point. Coercion failure
// is a rule failure, not an error.
func (e *Evaluator) compareNumeric(value, operator, threshold, field string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		e.logger.Warn("non-numeric sample value, rule fails",
			"field", field,
			"operator", operator,
			"value", value,
		)
		return false
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(threshold), 64)
	if err != nil {
		e.logger.Warn("non-numeric threshold, rule fails",
			"field", field,
			"operator", operator,
			"threshold", threshold,
		)
		return false
	}

	switch operator {
	case OpGreaterEqual:
		return v >= t
	case OpLessEqual:
		return v <= t
	case OpGreater:
		return v > t
	case OpLess:
		return v < t
	}
	return false
}

// matchRegex matches the threshold pattern against the value, anchored at
// the start of the string (prefix match, not full match). A null pattern or
// an uncompilable pattern fails the rule.
func (e *Evaluator) matchRegex(value, pattern, field string) bool {
	if isNullMarker(pattern) {
		return false
	}

	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		e.logger.Warn("invalid regex pattern, rule fails",
			"field", field,
			"pattern", pattern,
			"error", err,
		)
		return false
	}

	return re.MatchString(value)
}
