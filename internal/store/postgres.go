package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/models"
)

// DB is the part of a pgx pool PostgresStore needs. *dbpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps documents in the documents table (kind, body jsonb, updated_at).
type PostgresStore struct {
	db  DB
	log *logrus.Logger
}

var _ DocumentStore = (*PostgresStore)(nil)

// NewPostgresStore returns a PostgresStore using db.
func NewPostgresStore(db DB, log *logrus.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// Driver implements DocumentStore.
func (s *PostgresStore) Driver() string { return "postgres" }

// Get implements DocumentStore.
func (s *PostgresStore) Get(ctx context.Context, kind models.Kind) ([]byte, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var body []byte

	err := s.db.QueryRow(ctx, `SELECT body FROM documents WHERE kind = $1`, string(kind)).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s document: %w", kind, err)
	}

	return body, nil
}

// Put upserts the document. The documents table trigger publishes a
// document_changes notification for every write.
func (s *PostgresStore) Put(ctx context.Context, kind models.Kind, body []byte) (time.Time, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var updatedAt time.Time

	err := s.db.QueryRow(ctx,
		`INSERT INTO documents (kind, body, updated_at)
		 VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (kind) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		 RETURNING updated_at`,
		string(kind), string(body),
	).Scan(&updatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("storing %s document: %w", kind, err)
	}

	s.log.WithFields(logrus.Fields{
		"kind":  kind,
		"bytes": len(body),
	}).Debug("document written")

	return updatedAt, nil
}

// Ping checks that the documents table is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return fmt.Errorf("schema check: %w", err)
	}

	return nil
}
