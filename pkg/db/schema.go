package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs table: one row per process/analyze invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    command TEXT NOT NULL,              -- process, analyze
    started_at TIMESTAMP NOT NULL,
    files INTEGER NOT NULL DEFAULT 0,
    failed_files INTEGER NOT NULL DEFAULT 0,
    records INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    elapsed_seconds REAL NOT NULL DEFAULT 0,
    docs_per_second REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Processed records: the per-document table from the latest process run
CREATE TABLE IF NOT EXISTS processed_records (
    record_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    date TEXT NOT NULL,
    doc_id TEXT NOT NULL,
    keyword_hits INTEGER NOT NULL,
    text_length INTEGER NOT NULL DEFAULT 0,
    word_count INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_processed_date ON processed_records(date);
CREATE INDEX IF NOT EXISTS idx_processed_run ON processed_records(run_id);

-- Daily rows: the merged daily table from the latest analyze run.
-- colcap_close is NULL on dates without a series point.
CREATE TABLE IF NOT EXISTS daily_rows (
    date TEXT PRIMARY KEY,
    docs_count INTEGER NOT NULL,
    total_keyword_hits INTEGER NOT NULL,
    colcap_close REAL
);
`
