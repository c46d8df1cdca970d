// Package store holds the server's dataset documents: one JSON document per
// dataset kind, replaced wholesale on every write.
//
// Two backends exist. FileStore keeps each document as a JSON file under a
// data directory; PostgresStore keeps them in the documents table.
package store

import (
	"context"
	"time"

	"github.com/tradelens/tradelens/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// DocumentStore is implemented by every backend.
type DocumentStore interface {
	// Get returns the stored document, or models.ErrDocumentNotFound.
	Get(ctx context.Context, kind models.Kind) ([]byte, error)
	// Put replaces the stored document and returns the time it was written.
	Put(ctx context.Context, kind models.Kind, body []byte) (time.Time, error)
	// Ping reports whether the backend can currently serve writes.
	Ping(ctx context.Context) error
	// Driver names the backend ("file" or "postgres").
	Driver() string
}
