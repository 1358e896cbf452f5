// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists download history in a SQLite database so
// repeated runs can report what was fetched for which query.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doc-agent/pkg/types"
)

// Store manages the download-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded download run for a single query.
type Run struct {
	ID        int64
	Query     string
	StartedAt time.Time
	Successes int
	Failures  int
	Skips     int
}

// NewStore opens or creates the history database at path.
func NewStore(path string) (*Store, error) {
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
			query TEXT NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			title TEXT NOT NULL,
			link TEXT,
			score REAL,
			status TEXT NOT NULL,
			detail TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_run_id ON attempts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_link ON attempts(link)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores a completed download run and its attempts in a
// single transaction. It returns the new run's identifier.
func (s *Store) RecordRun(ctx context.Context, query string, startedAt time.Time, attempts []types.Attempt) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (query, started_at) VALUES (?, ?)`,
		query, startedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, a := range attempts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attempts (run_id, title, link, score, status, detail)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, a.Title, a.Link, a.Score, string(a.Status), a.Detail,
		); err != nil {
			return 0, fmt.Errorf("inserting attempt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns all recorded runs with their attempt tallies, newest
// first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.query, r.started_at,
			COALESCE(SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END), 0)
		FROM runs r LEFT JOIN attempts a ON a.run_id = r.id
		GROUP BY r.id ORDER BY r.id DESC`,
		string(types.StatusSuccess), string(types.StatusFail), string(types.StatusSkip),
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Query, &started, &r.Successes, &r.Failures, &r.Skips); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		t, err := time.Parse(time.RFC3339, started)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		r.StartedAt = t
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DownloadedLinks returns the set of links that have succeeded in any
// prior run. Callers use it to avoid re-downloading known documents.
func (s *Store) DownloadedLinks(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT link FROM attempts WHERE status = ? AND link != ''`,
		string(types.StatusSuccess),
	)
	if err != nil {
		return nil, fmt.Errorf("querying downloaded links: %w", err)
	}
	defer rows.Close()

	links := make(map[string]bool)
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links[link] = true
	}
	return links, rows.Err()
}

// Attempts returns the attempts recorded for one run in insertion
// order.
func (s *Store) Attempts(ctx context.Context, runID int64) ([]types.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, link, score, status, detail FROM attempts
		 WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var attempts []types.Attempt
	for rows.Next() {
		var a types.Attempt
		var status string
		if err := rows.Scan(&a.Title, &a.Link, &a.Score, &status, &a.Detail); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		a.Status = types.AttemptStatus(status)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
