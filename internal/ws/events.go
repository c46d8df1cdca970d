package ws

import (
	"encoding/json"
	"time"
)

// EventDocumentSaved is broadcast after a dataset document is stored.
const EventDocumentSaved = "document.saved"

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client to choose dataset kinds and request
// replay of events after LastEventID. An empty Kinds list means every kind.
type SubscribeMsg struct {
	Type        string   `json:"type"`
	Kinds       []string `json:"kinds,omitempty"`
	LastEventID uint64   `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
