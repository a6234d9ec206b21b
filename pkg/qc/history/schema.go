package history

// SchemaVersion is the current database schema version. A mismatch on open
// is an error; there are no migrations yet.
const SchemaVersion = 1

// Schema creates the history tables.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS runs (
    run_id         TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    source         TEXT NOT NULL,
    started_at     TEXT NOT NULL,
    completed_at   TEXT NOT NULL,
    samples        INTEGER NOT NULL,
    outcome_counts TEXT NOT NULL,
    action_counts  TEXT NOT NULL,
    warnings       TEXT NOT NULL,
    skipped_rules  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

CREATE TABLE IF NOT EXISTS sample_verdicts (
    run_id       TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    sample_name  TEXT NOT NULL,
    qc_outcome   TEXT NOT NULL,
    qc_action    TEXT NOT NULL,
    failed_rules TEXT NOT NULL,
    PRIMARY KEY (run_id, sample_name)
);
`

const insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

const getSchemaVersion = `SELECT version FROM schema_version LIMIT 1`

const insertRun = `
INSERT INTO runs (run_id, title, source, started_at, completed_at, samples,
                  outcome_counts, action_counts, warnings, skipped_rules)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertVerdict = `
INSERT INTO sample_verdicts (run_id, sample_name, qc_outcome, qc_action, failed_rules)
VALUES (?, ?, ?, ?, ?)`

const selectRuns = `
SELECT run_id, title, source, started_at, completed_at, samples,
       outcome_counts, action_counts, warnings, skipped_rules
FROM runs ORDER BY started_at DESC LIMIT ?`

const selectRun = `
SELECT run_id, title, source, started_at, completed_at, samples,
       outcome_counts, action_counts, warnings, skipped_rules
FROM runs WHERE run_id = ?`

const selectVerdicts = `
SELECT sample_name, qc_outcome, qc_action, failed_rules
FROM sample_verdicts WHERE run_id = ? ORDER BY sample_name`
