package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
)

// ErrEmptyDocument is returned by PutDocument when doc holds no JSON value.
var ErrEmptyDocument = errors.New("tradelens: empty document")

func documentPath(kind string) string {
	return "/api/v1/data/" + url.PathEscape(kind)
}

// GetDocument returns the stored document for a dataset kind ("macro",
// "industry" or "company"). The server answers with an empty object or array
// when nothing has been stored yet.
func (c *Client) GetDocument(ctx context.Context, kind string) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := c.get(ctx, documentPath(kind), nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PutDocument replaces the stored document for a dataset kind.
func (c *Client) PutDocument(ctx context.Context, kind string, doc json.RawMessage) (*SaveResult, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	var res SaveResult
	if err := c.post(ctx, documentPath(kind), doc, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoadLegacy calls the legacy macro endpoint, which wraps the document as
// {gdpData, tradeData}.
func (c *Client) LoadLegacy(ctx context.Context) (*LegacyPayload, error) {
	var p LegacyPayload
	if err := c.get(ctx, "/api/load-data", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
