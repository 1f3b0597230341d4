// Package history archives completed runs into a SQLite database. Each run
// becomes one row plus one row per removed entry, so an operator can answer
// "what did housekeeper delete last Tuesday" long after the telemetry log
// has rotated away.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/housekeeper/internal/sweep"
)

// DefaultPath is the conventional location for the history database.
const DefaultPath = ".housekeeper/history.db"

// historySchema is the DDL for the history database.
const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at  TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,
    dry_run     BOOLEAN NOT NULL,
    removed     INTEGER NOT NULL,
    kept        INTEGER NOT NULL,
    excluded    INTEGER NOT NULL,
    skipped     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS removals (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id     INTEGER NOT NULL REFERENCES runs(id),
    path       TEXT NOT NULL,
    kind       TEXT NOT NULL,
    entry_time TIMESTAMP
);
`

// Run is one archived run row.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Removed    int
	Kept       int
	Excluded   int
	Skipped    int
}

// Removal is one archived removal row.
type Removal struct {
	RunID     int64
	Path      string
	Kind      string
	EntryTime time.Time
}

// Store is the history database handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database. Calling Close on a nil Store is a no-op.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun archives a run summary and its removals in a single transaction
// and returns the new run ID. Calling RecordRun on a nil Store is a no-op.
func (s *Store) RecordRun(ctx context.Context, sum *sweep.Summary) (int64, error) {
	if s == nil {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("history: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on error paths

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, dry_run, removed, kept, excluded, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.StartedAt.UTC(), sum.FinishedAt.UTC(), sum.DryRun,
		sum.Removed, sum.Kept, sum.Excluded, sum.Skipped)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: run id: %w", err)
	}

	for _, r := range sum.Removals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO removals (run_id, path, kind, entry_time) VALUES (?, ?, ?, ?)`,
			runID, r.Path, r.Kind, r.EntryTime.UTC()); err != nil {
			return 0, fmt.Errorf("history: insert removal %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, dry_run, removed, kept, excluded, skipped
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.DryRun,
			&r.Removed, &r.Kept, &r.Excluded, &r.Skipped); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// RemovalsForRun returns the removals archived for one run, in insertion order.
func (s *Store) RemovalsForRun(ctx context.Context, runID int64) ([]Removal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, path, kind, entry_time FROM removals WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: query removals: %w", err)
	}
	defer rows.Close()

	var removals []Removal
	for rows.Next() {
		var r Removal
		if err := rows.Scan(&r.RunID, &r.Path, &r.Kind, &r.EntryTime); err != nil {
			return nil, fmt.Errorf("history: scan removal: %w", err)
		}
		removals = append(removals, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate removals: %w", err)
	}
	return removals, nil
}
