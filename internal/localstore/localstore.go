// Package localstore is the device-local storage tier: a small SQLite key/value
// table holding one JSON document per dataset.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/persist"
)

// Store implements persist.Tier on top of SQLite.
type Store struct {
	db *sql.DB
}

var _ persist.Tier = (*Store)(nil)

// Entry describes one stored document.
type Entry struct {
	Key       string
	Bytes     int
	UpdatedAt time.Time
}

// Open opens the database at dsn, configures WAL mode and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// A single connection keeps :memory: databases consistent across calls.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: exec %s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}

	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read returns the document stored under the kind's local key.
func (s *Store) Read(ctx context.Context, kind models.Kind) ([]byte, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, kind.LocalKey()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: read %s: %w", kind.LocalKey(), err)
	}

	return []byte(value), nil
}

// Write replaces the document stored under the kind's local key.
func (s *Store) Write(ctx context.Context, kind models.Kind, doc []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		kind.LocalKey(), string(doc), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: write %s: %w", kind.LocalKey(), err)
	}

	return nil
}

// Delete removes the document for kind. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, kind models.Kind) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, kind.LocalKey()); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", kind.LocalKey(), err)
	}

	return nil
}

// List describes every stored document, ordered by key.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, length(value), updated_at FROM documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Bytes, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan entry: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
