package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout     = 10 * time.Second
	wsReadLimit      = 4096
	clientSendBuffer = 256
	maxConnLifetime  = 4 * time.Hour
	pingInterval     = 30 * time.Second
	pingTimeout      = 10 * time.Second
	maxMissedPongs   = int32(2)
)

// Client wraps a single WebSocket connection managed by the Hub.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Logger
	closeOnce   sync.Once
	connectedAt time.Time

	mu    sync.RWMutex
	kinds map[string]struct{} // nil means every kind
}

// closeSend safely closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// NewClient creates a new Client for the given WebSocket connection,
// subscribed to every dataset kind until it says otherwise.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientSendBuffer),
		log:         hub.log,
		connectedAt: time.Now(),
	}
}

// Wants reports whether the client is subscribed to kind.
func (c *Client) Wants(kind string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.kinds == nil {
		return true
	}
	_, ok := c.kinds[kind]
	return ok
}

func (c *Client) setKinds(kinds []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(kinds) == 0 {
		c.kinds = nil
		return
	}

	c.kinds = make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		c.kinds[k] = struct{}{}
	}
}

// ReadPump reads messages from the WebSocket connection until it closes.
// Clients send subscribe messages to filter kinds and replay missed events.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, msgBytes, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.WithField("status", websocket.CloseStatus(err)).Debug("client disconnected")
			}

			return
		}

		c.handleMessage(msgBytes)
	}
}

// sendPing sends a WebSocket ping and tracks missed pongs.
// Returns true if the connection should be closed.
func (c *Client) sendPing(ctx context.Context, missedPongs *atomic.Int32) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := c.conn.Ping(pingCtx)
	cancel()

	if err != nil {
		if missedPongs.Add(1) >= maxMissedPongs {
			c.log.Debug("closing: 2 consecutive missed pongs")

			return true
		}

		return false
	}

	missedPongs.Store(0)

	return false
}

// handleMessage processes an incoming client message.
func (c *Client) handleMessage(msgBytes []byte) {
	var msg SubscribeMsg
	if err := json.Unmarshal(msgBytes, &msg); err != nil {
		return
	}

	if msg.Type != "subscribe" {
		return
	}

	c.setKinds(msg.Kinds)

	if !c.hub.ReplayEvents(c, msg.LastEventID) {
		resetMsg, err := json.Marshal(ResetMsg{
			Type:   "reset",
			Reason: "requested events no longer available, perform full refresh",
		})
		if err != nil {
			return
		}
		select {
		case c.send <- resetMsg:
		default:
		}
	}
}

// WritePump writes messages from the send channel to the WebSocket connection.
// It pings the peer periodically and enforces a maximum connection lifetime.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetimeTimer := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetimeTimer.Stop()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	var missedPongs atomic.Int32

	for {
		select {
		case <-pingTicker.C:
			if c.sendPing(ctx, &missedPongs) {
				return
			}
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)

			err := c.conn.Write(writeCtx, websocket.MessageText, msg)

			cancel()

			if err != nil {
				c.log.WithError(err).Debug("write failed")

				return
			}
		case <-lifetimeTimer.C:
			c.log.Info("closing WebSocket: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort

			return
		}
	}
}
