package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"microqc-hq/verdict/pkg/config"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	wal := true
	cfg := config.HistoryConfig{
		Enabled:      true,
		Path:         filepath.Join(t.TempDir(), "history.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		WALMode:      &wal,
		BusyTimeout:  time.Second,
	}

	store, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRun() *RunRecord {
	started := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	return &RunRecord{
		RunID:         NewRunID(),
		Title:         "run 42",
		Source:        "run_data.tsv",
		StartedAt:     started,
		CompletedAt:   started.Add(3 * time.Second),
		Samples:       2,
		OutcomeCounts: map[string]int{"LOW_COV": 1},
		ActionCounts:  map[string]int{"resequence": 1, "release": 1},
		Warnings:      []string{`Field "x" not found in sample data (no mapping defined in config)`},
		SkippedRules:  []string{"R3"},
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := testRun()
	verdicts := []SampleVerdict{
		{SampleName: "s1", QCOutcome: "LOW_COV", QCAction: "resequence", FailedRules: "R1"},
		{SampleName: "s2", QCOutcome: "PASS", QCAction: "release"},
	}

	if err := store.Record(ctx, run, verdicts); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, gotVerdicts, err := store.Get(ctx, run.RunID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Title != run.Title || got.Source != run.Source || got.Samples != run.Samples {
		t.Errorf("run = %+v, want %+v", got, run)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, run.StartedAt)
	}
	if got.OutcomeCounts["LOW_COV"] != 1 {
		t.Errorf("OutcomeCounts = %v", got.OutcomeCounts)
	}
	if len(got.Warnings) != 1 || len(got.SkippedRules) != 1 {
		t.Errorf("Warnings = %v, SkippedRules = %v", got.Warnings, got.SkippedRules)
	}

	if len(gotVerdicts) != 2 {
		t.Fatalf("got %d verdicts, want 2", len(gotVerdicts))
	}
	// Verdicts come back ordered by sample name.
	if gotVerdicts[0].SampleName != "s1" || gotVerdicts[0].QCAction != "resequence" {
		t.Errorf("verdicts[0] = %+v", gotVerdicts[0])
	}
}

func TestStore_List(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := testRun()
	second := testRun()
	second.StartedAt = first.StartedAt.Add(time.Hour)
	second.CompletedAt = second.StartedAt.Add(time.Second)

	for _, run := range []*RunRecord{first, second} {
		if err := store.Record(ctx, run, nil); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first.
	if runs[0].RunID != second.RunID {
		t.Errorf("runs[0] = %s, want %s", runs[0].RunID, second.RunID)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d runs, want 1", len(limited))
	}
}

func TestStore_GetUnknownRun(t *testing.T) {
	store := testStore(t)

	_, _, err := store.Get(context.Background(), "no-such-run")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get error = %v, want ErrRunNotFound", err)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	wal := true
	cfg := config.HistoryConfig{
		Path:         filepath.Join(t.TempDir(), "history.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		WALMode:      &wal,
		BusyTimeout:  time.Second,
	}

	store, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	run := testRun()
	if err := store.Record(context.Background(), run, nil); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.Close()

	reopened, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, _, err := reopened.Get(context.Background(), run.RunID)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.Title != run.Title {
		t.Errorf("Title = %q, want %q", got.Title, run.Title)
	}
}
