package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tradelens/tradelens/internal/httputil"
	"github.com/tradelens/tradelens/internal/metrics"
)

// Codes for requests rejected before they reach a handler.
const (
	codeRateLimited     = "rate_limited"
	codePayloadTooLarge = "payload_too_large"
)

// reject counts the rejection and aborts with the shared error envelope.
func reject(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
