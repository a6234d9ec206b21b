package manager

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"microqc-hq/verdict/pkg/config"
	"microqc-hq/verdict/pkg/qc/engine"
	"microqc-hq/verdict/pkg/qc/history"
	"microqc-hq/verdict/pkg/qc/loader"
	"microqc-hq/verdict/pkg/qc/table"
)

// Runner executes complete QC runs: load reference and run data, process,
// write the result and warning tables, and record the run. Reference data
// is reloaded on every run so that edited rule tables take effect without
// a restart.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics engine.Recorder
	store   *history.Store
}

// NewRunner creates a runner. Metrics and store may be nil to disable
// recording.
func NewRunner(cfg *config.Config, logger *slog.Logger, metrics engine.Recorder, store *history.Store) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:     cfg,
		logger:  logger.With("component", "qc.runner"),
		metrics: metrics,
		store:   store,
	}
}

// RunOnce performs one complete QC run and returns its summary.
func (r *Runner) RunOnce(ctx context.Context) (*engine.Summary, error) {
	started := time.Now()
	input := r.cfg.QC.Input

	ref, err := loader.LoadReference(input.QCRules, input.QCTests, input.Mapping, r.logger)
	if err != nil {
		return nil, err
	}

	src := loader.DataSource{File: input.Data.File, APICall: input.Data.APICall}
	data, err := loader.LoadRunData(ctx, src, r.logger)
	if err != nil {
		return nil, err
	}

	proc := engine.New(engine.Config{
		Rules:   ref.Rules,
		Tests:   ref.Tests,
		Mapping: ref.Mapping,
		Logger:  r.logger,
		Metrics: r.metrics,
	})

	results, err := proc.Process(data)
	if err != nil {
		return nil, err
	}

	output := r.cfg.QC.Output
	if err := table.WriteFile(output.Results, results); err != nil {
		return nil, fmt.Errorf("failed to write results: %w", err)
	}
	if err := table.WriteWarnings(output.Warnings, proc.WarningRows(time.Now())); err != nil {
		return nil, fmt.Errorf("failed to write warnings: %w", err)
	}

	summary := proc.Summarize(results)

	r.logger.Info("run complete",
		"samples", summary.Samples,
		"warnings", len(summary.Warnings),
		"skipped_rules", len(summary.SkippedRules),
		"results", output.Results,
	)

	if r.store != nil {
		if err := r.record(ctx, src.Source(), started, summary, results); err != nil {
			// History is an audit trail; a failed write must not fail the run.
			r.logger.Error("failed to record run history", "error", err)
		}
	}

	return summary, nil
}

func (r *Runner) record(ctx context.Context, source string, started time.Time, summary *engine.Summary, results *table.Table) error {
	run := &history.RunRecord{
		RunID:         history.NewRunID(),
		Title:         r.cfg.Title,
		Source:        source,
		StartedAt:     started,
		CompletedAt:   time.Now(),
		Samples:       summary.Samples,
		OutcomeCounts: summary.OutcomeCounts,
		ActionCounts:  summary.ActionCounts,
		Warnings:      summary.Warnings,
		SkippedRules:  summary.SkippedRules,
	}

	verdicts := make([]history.SampleVerdict, 0, len(results.Records))
	for _, rec := range results.Records {
		verdicts = append(verdicts, history.SampleVerdict{
			SampleName:  rec.Value(engine.ColumnSampleName),
			QCOutcome:   rec.Value(engine.ColumnQCOutcome),
			QCAction:    rec.Value(engine.ColumnQCAction),
			FailedRules: rec.Value(engine.ColumnFailedRules),
		})
	}

	if err := r.store.Record(ctx, run, verdicts); err != nil {
		return err
	}

	r.logger.Debug("run history recorded", "run_id", run.RunID)
	return nil
}
