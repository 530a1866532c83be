package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dnovoa/econpulse/models"
)

// Run is one recorded pipeline invocation.
type Run struct {
	RunID          int64
	Command        string
	StartedAt      time.Time
	Files          int
	FailedFiles    int
	Records        int
	Skipped        int
	ElapsedSeconds float64
	DocsPerSecond  float64
}

// InsertRun records a pipeline invocation and returns its run_id.
func (db *DB) InsertRun(run Run) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (command, started_at, files, failed_files, records, skipped, elapsed_seconds, docs_per_second)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Command, run.StartedAt.UTC(), run.Files, run.FailedFiles, run.Records, run.Skipped, run.ElapsedSeconds, run.DocsPerSecond)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, command, started_at, files, failed_files, records, skipped, elapsed_seconds, docs_per_second
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Command, &r.StartedAt, &r.Files, &r.FailedFiles, &r.Records, &r.Skipped, &r.ElapsedSeconds, &r.DocsPerSecond); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// InsertProcessedRecords stores the per-document table for a run inside one
// transaction.
func (db *DB) InsertProcessedRecords(runID int64, records []models.ProcessedRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO processed_records (run_id, date, doc_id, keyword_hits, text_length, word_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Date, r.DocID, r.KeywordHits, r.TextLength, r.WordCount); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert record %s: %w", r.DocID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// ReplaceDailyRows swaps the merged daily table for the latest analyze output.
func (db *DB) ReplaceDailyRows(merged []models.MergedRow) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM daily_rows"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear daily rows: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_rows (date, docs_count, total_keyword_hits, colcap_close)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range merged {
		closeVal := sql.NullFloat64{}
		if row.Series != nil {
			closeVal = sql.NullFloat64{Float64: row.Series.Close, Valid: true}
		}
		if _, err := stmt.Exec(row.Date, row.DocsCount, row.TotalKeywordHits, closeVal); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert daily row %s: %w", row.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily rows: %w", err)
	}
	return nil
}

// CountProcessedRecords reports how many processed records a run stored.
func (db *DB) CountProcessedRecords(runID int64) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM processed_records WHERE run_id = ?", runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
