package client

import (
	"encoding/json"
	"time"
)

// SaveResult is the server's answer to a document write.
type SaveResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// LegacyPayload is the body of the legacy /api/load-data and /api/save-data routes.
type LegacyPayload struct {
	GDPData   json.RawMessage `json:"gdpData"`
	TradeData json.RawMessage `json:"tradeData"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Storage       string  `json:"storage"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is the readiness check payload.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Event is a change notification pushed over the WebSocket stream.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// DocumentSaved is the Data of a "document.saved" event.
type DocumentSaved struct {
	Kind    string    `json:"kind"`
	Bytes   int       `json:"bytes"`
	SavedAt time.Time `json:"saved_at"`
}
