package api_test

import (
	"context"
	"encoding/json"

	"github.com/tradelens/tradelens/internal/models"
)

// mockDocumentService implements api.DocumentService for testing.
type mockDocumentService struct {
	loadFn func(ctx context.Context, kind models.Kind) (json.RawMessage, bool, error)
	saveFn func(ctx context.Context, kind models.Kind, body []byte) (*models.SaveResponse, error)
}

func (m *mockDocumentService) Load(ctx context.Context, kind models.Kind) (json.RawMessage, bool, error) {
	return m.loadFn(ctx, kind)
}

func (m *mockDocumentService) Save(ctx context.Context, kind models.Kind, body []byte) (*models.SaveResponse, error) {
	return m.saveFn(ctx, kind, body)
}

// mockStorage implements api.StorageChecker for testing.
type mockStorage struct {
	driver string
	pingFn func(ctx context.Context) error
}

func (m *mockStorage) Ping(ctx context.Context) error {
	if m.pingFn == nil {
		return nil
	}
	return m.pingFn(ctx)
}

func (m *mockStorage) Driver() string { return m.driver }

// mockHub implements api.HubCounter for testing.
type mockHub struct{ n int }

func (m *mockHub) ClientCount() int { return m.n }
