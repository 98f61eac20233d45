// Package history persists build records to a local SQLite database so the
// CLI and the watch loop can report what was built, when, and with what.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/inkweld/inkweld/internal/manifest"
)

// Store is an append-only build history backed by SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a SQLite-backed store. Use ":memory:" for an in-memory
// database, or a file path for persistent history.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		source_dir TEXT NOT NULL,
		status TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		record BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	CREATE INDEX IF NOT EXISTS idx_builds_status ON builds(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores a completed build record.
func (s *Store) Append(ctx context.Context, r *manifest.BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := r.ToJSON()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO builds (id, timestamp, source_dir, status, duration_ms, record) VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.Timestamp.Unix(), r.SourceDir, string(r.Status), r.Duration, payload,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Latest returns the most recent build record, or nil when the history is
// empty.
func (s *Store) Latest(ctx context.Context) (*manifest.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM builds ORDER BY timestamp DESC, id DESC LIMIT 1",
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest build: %w", err)
	}
	return manifest.FromJSON(payload)
}

// List returns up to limit most recent build records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*manifest.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT record FROM builds ORDER BY timestamp DESC, id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*manifest.BuildRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r, err := manifest.FromJSON(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored build records.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM builds").Scan(&n); err != nil {
		return 0, fmt.Errorf("count builds: %w", err)
	}
	return n, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
