package api

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/middleware"
	"github.com/tradelens/tradelens/internal/ws"
)

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// CORS origins are reused as WebSocket origin patterns.
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(hub, conn)
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
			"bytes":    c.Writer.Size(),
		}
		if kind := c.Param("kind"); kind != "" {
			fields["kind"] = kind
		}

		entry := middleware.Logger(c, log).WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
