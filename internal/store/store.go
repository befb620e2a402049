// Package store handles SQLite persistence of generation runs.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/hashmarkov/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			source TEXT NOT NULL,
			capacity INTEGER NOT NULL,
			prefix_len INTEGER NOT NULL,
			words INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			source_len INTEGER NOT NULL,
			key_count INTEGER NOT NULL,
			max_shift INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			output TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and returns its id.
func (s *Store) InsertRun(ctx context.Context, run model.RunStats) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, source, capacity, prefix_len, words, seed, source_len, key_count, max_shift, duration_ms, output)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Source,
		run.Capacity,
		run.PrefixLen,
		run.Words,
		run.Seed,
		run.SourceLen,
		run.Keys,
		run.MaxShift,
		run.DurationMs,
		run.Output,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns up to limit runs, oldest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, started_at, source, capacity, prefix_len, words, seed, source_len, key_count, max_shift, duration_ms, output
	FROM (
		SELECT * FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	)
	ORDER BY started_at ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var startedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &rec.Source, &rec.Capacity, &rec.PrefixLen, &rec.Words,
			&rec.Seed, &rec.SourceLen, &rec.Keys, &rec.MaxShift, &rec.DurationMs, &rec.Output); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		rec.StartedAt = parsed
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
