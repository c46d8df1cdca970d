package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tradelens/tradelens/internal/api"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(&mockStorage{driver: "file"}, &mockHub{n: 3}, testLogger(), "test-v1")

	r := gin.New()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", body["status"])
	}
	if body["version"] != "test-v1" {
		t.Errorf("expected version 'test-v1', got %v", body["version"])
	}
	if body["storage"] != "file" || body["database"] != "not_configured" {
		t.Errorf("storage/database = %v/%v", body["storage"], body["database"])
	}
	if body["ws_clients"] != float64(3) {
		t.Errorf("ws_clients = %v, want 3", body["ws_clients"])
	}
}

func TestLiveness_DatabaseDown(t *testing.T) {
	t.Parallel()

	storage := &mockStorage{
		driver: "postgres",
		pingFn: func(context.Context) error { return errors.New("connection refused") },
	}
	h := api.NewHealthHandler(storage, nil, testLogger(), "v")

	r := gin.New()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("liveness must stay 200, got %d", w.Code)
	}

	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body) //nolint:errcheck

	if body["database"] != "disconnected" {
		t.Errorf("database = %v, want disconnected", body["database"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		storage api.StorageChecker
		want    int
		check   string
	}{
		{"ready", &mockStorage{driver: "file"}, http.StatusOK, "ok"},
		{"storage error", &mockStorage{driver: "file", pingFn: func(context.Context) error { return errors.New("read-only") }}, http.StatusServiceUnavailable, "error"},
		{"no storage", nil, http.StatusServiceUnavailable, "not_configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := api.NewHealthHandler(tt.storage, nil, testLogger(), "v")

			r := gin.New()
			r.GET("/ready", h.Readiness)

			w := doRequest(r, http.MethodGet, "/ready", "")

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Checks["storage"] != tt.check {
				t.Errorf("storage check = %q, want %q", body.Checks["storage"], tt.check)
			}
		})
	}
}
