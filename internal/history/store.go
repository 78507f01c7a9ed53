// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite record of conversion runs and the outcome
// of every file in them.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doc2md/pkg/types"
)

// defaultLimit caps Recent when the caller passes a non-positive limit.
const defaultLimit = 20

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Run is one recorded conversion run.
type Run struct {
	ID         int64     `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	types.RunSummary `yaml:",inline"`
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			log_path TEXT NOT NULL,
			total INTEGER NOT NULL,
			success_count INTEGER NOT NULL,
			failure_count INTEGER NOT NULL,
			warning_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			source TEXT NOT NULL,
			output TEXT,
			status TEXT NOT NULL,
			warnings TEXT,
			error TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a finished run and its per-file outcomes in one
// transaction and returns the new run ID.
func (s *Store) Record(ctx context.Context, startedAt, finishedAt time.Time, summary types.RunSummary, files []types.FileOutcome) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, input_dir, output_dir, log_path,
			total, success_count, failure_count, warning_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339Nano), finishedAt.UTC().Format(time.RFC3339Nano),
		summary.InputDir, summary.OutputDir, summary.LogPath,
		summary.Total, summary.SuccessCount, summary.FailureCount, summary.WarningCount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, seq, source, output, status, warnings, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range files {
		warningsJSON, err := json.Marshal(f.Warnings)
		if err != nil {
			return 0, fmt.Errorf("encoding warnings of %s: %w", f.Source, err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, i, f.Source, f.Output, string(f.Status), string(warningsJSON), f.Error,
		); err != nil {
			return 0, fmt.Errorf("inserting file %s: %w", f.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_dir, output_dir, log_path,
			total, success_count, failure_count, warning_count
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputDir, &r.OutputDir, &r.LogPath,
			&r.Total, &r.SuccessCount, &r.FailureCount, &r.WarningCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		var err error
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing started_at of run %d: %w", r.ID, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at of run %d: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the recorded outcomes of run runID in processing order.
func (s *Store) Files(ctx context.Context, runID int64) ([]types.FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, output, status, warnings, error
		 FROM files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []types.FileOutcome
	for rows.Next() {
		var (
			f                     types.FileOutcome
			output, warnings, msg sql.NullString
			status                string
		)
		if err := rows.Scan(&f.Source, &output, &status, &warnings, &msg); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		f.Output = output.String
		f.Status = types.FileStatus(status)
		f.Error = msg.String
		if warnings.Valid && warnings.String != "" {
			if err := json.Unmarshal([]byte(warnings.String), &f.Warnings); err != nil {
				return nil, fmt.Errorf("decoding warnings of %s: %w", f.Source, err)
			}
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
