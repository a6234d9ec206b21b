package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"microqc-hq/verdict/pkg/config"
)

// ErrRunNotFound is returned when a run ID is absent from the store.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one recorded QC run.
type RunRecord struct {
	// RunID is the generated unique identifier for the run.
	RunID string

	// Title is the configured run title.
	Title string

	// Source is the run-data location (file path or endpoint URL).
	Source string

	// StartedAt and CompletedAt bound the run.
	StartedAt   time.Time
	CompletedAt time.Time

	// Samples is the number of processed samples.
	Samples int

	// OutcomeCounts maps fired outcome IDs to sample counts.
	OutcomeCounts map[string]int

	// ActionCounts maps resolved actions to sample counts.
	ActionCounts map[string]int

	// Warnings are the unique processing warnings of the run.
	Warnings []string

	// SkippedRules are the unique skipped rule IDs of the run.
	SkippedRules []string
}

// SampleVerdict is the per-sample outcome recorded with a run.
type SampleVerdict struct {
	SampleName  string
	QCOutcome   string
	QCAction    string
	FailedRules string
}

// NewRunID generates a unique run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Store persists run records to SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if necessary) the history database and initializes
// its schema.
func Open(cfg config.HistoryConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "qc.history")

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %q: %w", cfg.Path, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &Store{db: db, logger: logger}
	if err := s.initialize(cfg); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("history store opened",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode != nil && *cfg.WALMode,
	)

	return s, nil
}

func (s *Store) initialize(cfg config.HistoryConfig) error {
	if cfg.WALMode != nil && *cfg.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if cfg.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}

	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to insert schema version: %w", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("history schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}

	return nil
}

// Record persists one run and its sample verdicts atomically.
func (s *Store) Record(ctx context.Context, run *RunRecord, verdicts []SampleVerdict) error {
	outcomeJSON, err := json.Marshal(run.OutcomeCounts)
	if err != nil {
		return fmt.Errorf("failed to encode outcome counts: %w", err)
	}
	actionJSON, err := json.Marshal(run.ActionCounts)
	if err != nil {
		return fmt.Errorf("failed to encode action counts: %w", err)
	}
	warningsJSON, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}
	skippedJSON, err := json.Marshal(run.SkippedRules)
	if err != nil {
		return fmt.Errorf("failed to encode skipped rules: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertRun,
		run.RunID,
		run.Title,
		run.Source,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.CompletedAt.UTC().Format(time.RFC3339Nano),
		run.Samples,
		string(outcomeJSON),
		string(actionJSON),
		string(warningsJSON),
		string(skippedJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}

	for _, v := range verdicts {
		_, err = tx.ExecContext(ctx, insertVerdict,
			run.RunID, v.SampleName, v.QCOutcome, v.QCAction, v.FailedRules)
		if err != nil {
			return fmt.Errorf("failed to insert verdict for sample %s: %w", v.SampleName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.RunID, err)
	}

	s.logger.Debug("run recorded", "run_id", run.RunID, "samples", run.Samples)
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, selectRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run and its sample verdicts.
func (s *Store) Get(ctx context.Context, runID string) (*RunRecord, []SampleVerdict, error) {
	row := s.db.QueryRowContext(ctx, selectRun, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectVerdicts, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []SampleVerdict
	for rows.Next() {
		var v SampleVerdict
		if err := rows.Scan(&v.SampleName, &v.QCOutcome, &v.QCAction, &v.FailedRules); err != nil {
			return nil, nil, err
		}
		verdicts = append(verdicts, v)
	}
	return run, verdicts, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		run                    RunRecord
		startedAt, completedAt string
		outcomeJSON            string
		actionJSON             string
		warningsJSON           string
		skippedJSON            string
	)

	err := row.Scan(&run.RunID, &run.Title, &run.Source, &startedAt, &completedAt,
		&run.Samples, &outcomeJSON, &actionJSON, &warningsJSON, &skippedJSON)
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("invalid started_at for run %s: %w", run.RunID, err)
	}
	if run.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
		return nil, fmt.Errorf("invalid completed_at for run %s: %w", run.RunID, err)
	}

	if err := json.Unmarshal([]byte(outcomeJSON), &run.OutcomeCounts); err != nil {
		return nil, fmt.Errorf("invalid outcome counts for run %s: %w", run.RunID, err)
	}
	if err := json.Unmarshal([]byte(actionJSON), &run.ActionCounts); err != nil {
		return nil, fmt.Errorf("invalid action counts for run %s: %w", run.RunID, err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &run.Warnings); err != nil {
		return nil, fmt.Errorf("invalid warnings for run %s: %w", run.RunID, err)
	}
	if err := json.Unmarshal([]byte(skippedJSON), &run.SkippedRules); err != nil {
		return nil, fmt.Errorf("invalid skipped rules for run %s: %w", run.RunID, err)
	}

	return &run, nil
}
