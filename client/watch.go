package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/coder/websocket"
)

// ErrResetRequired is returned by Watch when the server can no longer replay
// the events after the requested id; the caller should reload everything.
var ErrResetRequired = errors.New("tradelens: event history unavailable, full refresh required")

// WatchOptions filters a change stream.
type WatchOptions struct {
	// Kinds limits events to these dataset kinds. Empty means every kind.
	Kinds []string
	// LastEventID replays buffered events after this id.
	LastEventID uint64
}

type subscribeMsg struct {
	Type        string   `json:"type"`
	Kinds       []string `json:"kinds,omitempty"`
	LastEventID uint64   `json:"last_event_id"`
}

// Watch streams change events to fn until ctx is cancelled, the server closes
// the connection, or fn returns an error. A server shutdown notice ends the
// stream with a nil error.
func (c *Client) Watch(ctx context.Context, opts WatchOptions, fn func(Event) error) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/v1/ws"

	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPClient: c.httpClient})
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	sub, err := json.Marshal(subscribeMsg{Type: "subscribe", Kinds: opts.Kinds, LastEventID: opts.LastEventID})
	if err != nil {
		return fmt.Errorf("marshal subscribe: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			continue
		}

		switch evt.Type {
		case "reset":
			return ErrResetRequired
		case "shutdown":
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // best-effort
			return nil
		}

		if err := fn(evt); err != nil {
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // best-effort
			return err
		}
	}
}
