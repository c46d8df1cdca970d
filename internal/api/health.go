// Package api provides HTTP handlers for the tradelens server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HubCounter reports connected WebSocket clients.
type HubCounter interface {
	ClientCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	storage   StorageChecker
	hub       HubCounter
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
// storage and hub may be nil.
func NewHealthHandler(storage StorageChecker, hub HubCounter, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		storage:   storage,
		hub:       hub,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Storage       string  `json:"storage"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health. It always answers 200; storage state
// is reported for information only.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Storage:       "not_configured",
		Database:      "not_configured",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.storage != nil {
		resp.Storage = h.storage.Driver()

		if resp.Storage == "postgres" {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			resp.Database = "connected"
			if err := h.storage.Ping(ctx); err != nil {
				resp.Database = "disconnected"
			}
		}
	}

	if h.hub != nil {
		resp.WSClients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. It answers 503 until the document
// store can serve writes.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"storage": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	switch {
	case h.storage == nil:
		checks["storage"] = "not_configured"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	default:
		if err := h.storage.Ping(ctx); err != nil {
			h.log.WithError(err).Error("readiness: storage check failed")
			checks["storage"] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	if h.hub != nil {
		checks["websocket"] = "ok"
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}
