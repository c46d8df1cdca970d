package persist

import (
	"context"
	"encoding/json"

	"github.com/tradelens/tradelens/client"
	"github.com/tradelens/tradelens/internal/models"
)

// DocumentClient is the part of the HTTP client used by the server tier.
type DocumentClient interface {
	GetDocument(ctx context.Context, kind string) (json.RawMessage, error)
	PutDocument(ctx context.Context, kind string, doc json.RawMessage) (*client.SaveResult, error)
}

// RemoteTier stores documents on the tradelens server.
type RemoteTier struct {
	c DocumentClient
}

var _ Tier = (*RemoteTier)(nil)

// NewRemoteTier wraps c as a Tier.
func NewRemoteTier(c DocumentClient) *RemoteTier {
	return &RemoteTier{c: c}
}

// Read fetches the stored document for kind.
func (r *RemoteTier) Read(ctx context.Context, kind models.Kind) ([]byte, error) {
	doc, err := r.c.GetDocument(ctx, string(kind))
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Write replaces the stored document for kind.
func (r *RemoteTier) Write(ctx context.Context, kind models.Kind, doc []byte) error {
	_, err := r.c.PutDocument(ctx, string(kind), doc)
	return err
}
