package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"microqc-hq/verdict/pkg/qc/table"
)

// Recorder receives engine events for metrics collection. Implementations
// must be safe for concurrent use. A nil Recorder disables recording.
type Recorder interface {
	// RecordRuleEvaluation is called once per applicable rule per sample.
	RecordRuleEvaluation(status RuleStatus)

	// RecordSample is called once per processed sample with its serialized
	// outcome IDs and resolved action.
	RecordSample(outcomes []string, action string)

	// RecordRun is called once per completed run.
	RecordRun(samples int, duration time.Duration)
}

// Config assembles the read-only reference data for one processing run.
type Config struct {
	// Rules is the rule table, in evaluation order.
	Rules []Rule

	// Tests is the outcome definition table, in evaluation order.
	Tests []Test

	// Mapping is the parsed mapping configuration supplying the field
	// mapping and QC overrides.
	Mapping *MappingConfig

	// Logger receives evaluation diagnostics. Defaults to slog.Default.
	Logger *slog.Logger

	// Metrics optionally receives engine events.
	Metrics Recorder
}

// Processor drives rule evaluation across a run's samples. Reference data
// is immutable for the processor's lifetime; per-run state is confined to
// the Accumulator.
type Processor struct {
	rules        []Rule
	tests        []Test
	fieldMapping FieldMapping
	overrides    Overrides
	evaluator    *Evaluator
	matcher      *Matcher
	acc          *Accumulator
	logger       *slog.Logger
	metrics      Recorder

	lastDuration time.Duration
}

// New creates a processor for one run. The field mapping is derived from
// the mapping configuration once, up front.
func New(cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "qc.engine")

	var overrides Overrides
	if cfg.Mapping != nil && cfg.Mapping.Overrides != nil {
		overrides = cfg.Mapping.Overrides
	} else {
		overrides = make(Overrides)
	}

	return &Processor{
		rules:        cfg.Rules,
		tests:        cfg.Tests,
		fieldMapping: BuildFieldMapping(cfg.Mapping),
		overrides:    overrides,
		evaluator:    NewEvaluator(logger),
		matcher:      NewMatcher(overrides, logger),
		acc:          NewAccumulator(),
		logger:       logger,
		metrics:      cfg.Metrics,
	}
}

// Accumulator exposes the run-wide warning and skipped-rule sets.
func (p *Processor) Accumulator() *Accumulator {
	return p.acc
}

// FieldMapping exposes the derived field mapping, read-only.
func (p *Processor) FieldMapping() FieldMapping {
	return p.fieldMapping
}

// Process evaluates every sample in the run-data table and returns the
// results table: all original sample columns plus failed_rules,
// passed_rules, qc_outcome, and qc_action. The input table is validated
// before any sample is processed and is never mutated.
func (p *Processor) Process(data *table.Table) (*table.Table, error) {
	if err := RunDataSchema.Validate(data); err != nil {
		return nil, err
	}

	start := time.Now()

	columns := make([]string, len(data.Columns), len(data.Columns)+4)
	copy(columns, data.Columns)
	for _, c := range []string{ColumnFailedRules, ColumnPassedRules, ColumnQCOutcome, ColumnQCAction} {
		if !data.HasColumn(c) {
			columns = append(columns, c)
		}
	}

	results := &table.Table{Columns: columns}
	for _, sample := range data.Records {
		results.Records = append(results.Records, p.ProcessSample(sample))
	}

	p.lastDuration = time.Since(start)
	if p.metrics != nil {
		p.metrics.RecordRun(len(results.Records), p.lastDuration)
	}

	p.logger.Info("samples processed",
		"samples", len(results.Records),
		"rules", len(p.rules),
		"tests", len(p.tests),
		"duration", p.lastDuration,
	)

	return results, nil
}

// ProcessSample evaluates all applicable rules against one sample and
// returns its result row. The input record is cloned, never mutated.
func (p *Processor) ProcessSample(sample *table.Record) *table.Record {
	result := sample.Clone()
	attrs := p.matcher.Attributes(sample)

	var failedRules, passedRules []string
	for _, rule := range p.rules {
		if !p.matcher.Applies(rule, attrs) {
			continue
		}

		status := p.EvaluateRule(sample, rule)
		if p.metrics != nil {
			p.metrics.RecordRuleEvaluation(status)
		}

		switch status {
		case StatusPass:
			passedRules = append(passedRules, rule.ID)
		case StatusFail:
			failedRules = append(failedRules, rule.ID)
		}
		// Skipped rules join neither list.
	}

	outcomes := DetermineOutcomes(failedRules, passedRules, p.tests)
	action := ResolveAction(outcomes, p.tests)

	outcomeStr := PassOutcome
	if len(outcomes) > 0 {
		outcomeStr = strings.Join(outcomes, ",")
	}

	result.Set(ColumnFailedRules, strings.Join(failedRules, ","))
	result.Set(ColumnPassedRules, strings.Join(passedRules, ","))
	result.Set(ColumnQCOutcome, outcomeStr)
	result.Set(ColumnQCAction, action)

	if p.metrics != nil {
		p.metrics.RecordSample(outcomes, action)
	}

	return result
}

// EvaluateRule evaluates a single rule against a sample. Rules whose
// resolved column is absent from the sample return StatusSkip and are
// recorded once in the warning and skipped-rule sets.
func (p *Processor) EvaluateRule(sample *table.Record, rule Rule) RuleStatus {
	column, mapped := p.fieldMapping.Resolve(rule.Field)

	if !sample.Has(column) {
		var msg string
		if mapped {
			msg = fmt.Sprintf("Field %q (mapped to %q) not found in sample data", rule.Field, column)
		} else {
			msg = fmt.Sprintf("Field %q not found in sample data (no mapping defined in config)", rule.Field)
		}
		p.acc.AddWarning(msg)
		p.acc.AddSkippedRule(rule.ID)
		return StatusSkip
	}

	if p.evaluator.Evaluate(sample.Value(column), rule.Operator, rule.Value, column) {
		return StatusPass
	}
	return StatusFail
}

// WarningRows converts the accumulated warnings and skipped rules into
// warnings-table rows, sorted by message text for determinism.
func (p *Processor) WarningRows(now time.Time) []table.Warning {
	var rows []table.Warning
	for _, msg := range p.acc.Warnings() {
		rows = append(rows, table.Warning{
			Type:      table.WarningTypeProcessing,
			Message:   msg,
			Timestamp: now,
		})
	}
	for _, ruleID := range p.acc.SkippedRules() {
		rows = append(rows, table.Warning{
			Type:      table.WarningTypeSkippedRule,
			Message:   fmt.Sprintf("Rule %s skipped due to missing fields", ruleID),
			Timestamp: now,
		})
	}
	return rows
}

// Summarize aggregates a results table for reporting.
func (p *Processor) Summarize(results *table.Table) *Summary {
	s := &Summary{
		Samples:       len(results.Records),
		OutcomeCounts: make(map[string]int),
		ActionCounts:  make(map[string]int),
		Warnings:      p.acc.Warnings(),
		SkippedRules:  p.acc.SkippedRules(),
		Duration:      p.lastDuration,
	}

	failedCounts := make(map[string]int)
	for _, rec := range results.Records {
		if outcomes := rec.Value(ColumnQCOutcome); outcomes != PassOutcome {
			for _, outcome := range strings.Split(outcomes, ",") {
				if outcome = strings.TrimSpace(outcome); outcome != "" {
					s.OutcomeCounts[outcome]++
				}
			}
		}

		if action := rec.Value(ColumnQCAction); action != "" {
			s.ActionCounts[action]++
		}

		for _, ruleID := range strings.Split(rec.Value(ColumnFailedRules), ",") {
			if ruleID = strings.TrimSpace(ruleID); ruleID != "" {
				failedCounts[ruleID]++
			}
		}
	}

	s.TopFailedRules = topRules(failedCounts, 10)
	return s
}

// topRules returns the n most frequently failed rules, most common first,
// ties broken alphabetically.
func topRules(counts map[string]int, n int) []RuleCount {
	out := make([]RuleCount, 0, len(counts))
	for id, count := range counts {
		out = append(out, RuleCount{RuleID: id, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RuleID < out[j].RuleID
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
