package table

import "time"

// Warning types written to the warnings table.
const (
	// WarningTypeProcessing marks warnings raised while evaluating rules
	// (missing fields, coercion failures).
	WarningTypeProcessing = "processing"

	// WarningTypeSkippedRule marks rules that were never evaluated because
	// their mapped column is absent from the sample data.
	WarningTypeSkippedRule = "skipped_rule"
)

// Warning is one row of the warnings output table.
type Warning struct {
	Type      string
	Message   string
	Timestamp time.Time
}

// WarningColumns is the warnings table header, written even when no
// warnings were collected.
var WarningColumns = []string{"warning_type", "warning_message", "timestamp"}

// WriteWarnings writes the warnings table. An empty warning list produces a
// header-only file.
func WriteWarnings(path string, warnings []Warning) error {
	t := &Table{Columns: WarningColumns}
	for _, w := range warnings {
		rec := NewRecord(WarningColumns)
		rec.Set("warning_type", w.Type)
		rec.Set("warning_message", w.Message)
		rec.Set("timestamp", w.Timestamp.Format(time.RFC3339))
		t.Records = append(t.Records, rec)
	}
	return WriteFile(path, t)
}
