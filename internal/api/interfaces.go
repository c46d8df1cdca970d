package api

import (
	"context"
	"encoding/json"

	"github.com/tradelens/tradelens/internal/models"
)

// DocumentService defines the document operations used by DocumentHandler.
type DocumentService interface {
	Load(ctx context.Context, kind models.Kind) (json.RawMessage, bool, error)
	Save(ctx context.Context, kind models.Kind, body []byte) (*models.SaveResponse, error)
}

// StorageChecker reports on the document store backing the server.
type StorageChecker interface {
	Ping(ctx context.Context) error
	Driver() string
}
