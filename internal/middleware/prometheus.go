package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradelens/tradelens/internal/metrics"
	"github.com/tradelens/tradelens/internal/models"
)

// PrometheusMiddleware records HTTP request duration and count. The route
// pattern is used as the path label; a valid :kind parameter is expanded so
// each dataset gets its own series.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestDuration.WithLabelValues(c.Request.Method, routeLabel(c), status).Observe(duration)
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, routeLabel(c), status).Inc()
	}
}

func routeLabel(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		return "unknown"
	}

	if strings.Contains(path, ":kind") {
		if kind, err := models.ParseKind(c.Param("kind")); err == nil {
			path = strings.Replace(path, ":kind", string(kind), 1)
		}
	}

	return path
}
