// Package history persists one record per build invocation in a local SQLite
// database, enabled through the HistoryFile hosted option.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Invocation is one recorded build run.
type Invocation struct {
	ID        string
	ImageName string
	ImageKind string
	State     string
	ExitCode  int
	Reason    string
	StartedAt time.Time
	Duration  time.Duration
}

// Store is the SQLite-backed invocation history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (and if needed initializes) the history database. Use ":memory:"
// for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id TEXT PRIMARY KEY,
		image_name TEXT NOT NULL,
		image_kind TEXT NOT NULL,
		state TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		reason TEXT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invocations_started_at ON invocations(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one invocation row.
func (s *Store) Record(ctx context.Context, inv Invocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO invocations (id, image_name, image_kind, state, exit_code, reason, started_at, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		inv.ID, inv.ImageName, inv.ImageKind, inv.State, inv.ExitCode, inv.Reason,
		inv.StartedAt.Unix(), inv.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// Recent returns up to limit invocations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, image_name, image_kind, state, exit_code, reason, started_at, duration_ms FROM invocations ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var result []Invocation
	for rows.Next() {
		var inv Invocation
		var startedAt int64
		var durationMS int64
		var reason sql.NullString
		if err := rows.Scan(&inv.ID, &inv.ImageName, &inv.ImageKind, &inv.State, &inv.ExitCode, &reason, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		inv.Reason = reason.String
		inv.StartedAt = time.Unix(startedAt, 0)
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		result = append(result, inv)
	}
	return result, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
