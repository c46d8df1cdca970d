package models

import "time"

// Snapshot is the in-memory state of one dataset provider.
type Snapshot[T any] struct {
	Data        T         `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// SaveResponse is returned by the server after a document has been stored.
type SaveResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// DocumentSaved is the payload of a document.saved change event.
type DocumentSaved struct {
	Kind    Kind      `json:"kind"`
	Bytes   int       `json:"bytes"`
	SavedAt time.Time `json:"saved_at"`
}
