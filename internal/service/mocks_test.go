package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tradelens/tradelens/internal/models"
)

// mockDocumentStore records calls and returns configured responses.
type mockDocumentStore struct {
	mu    sync.Mutex
	calls []string

	get func(ctx context.Context, kind models.Kind) ([]byte, error)
	put func(ctx context.Context, kind models.Kind, body []byte) (time.Time, error)
}

func (m *mockDocumentStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockDocumentStore) Get(ctx context.Context, kind models.Kind) ([]byte, error) {
	m.record("Get")
	return m.get(ctx, kind)
}

func (m *mockDocumentStore) Put(ctx context.Context, kind models.Kind, body []byte) (time.Time, error) {
	m.record("Put")
	return m.put(ctx, kind, body)
}

type broadcastCall struct {
	eventType string
	kind      string
	data      json.RawMessage
}

// mockBroadcaster captures broadcast events.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []broadcastCall
}

func (m *mockBroadcaster) BroadcastEvent(eventType, kind string, data json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, broadcastCall{eventType, kind, data})
}
