package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxBodySize returns middleware that limits request body size. Requests that
// declare a larger Content-Length are rejected with 413 before the handler
// runs; bodies without a declared length fail on read past the limit.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			reject(c, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
				"request body exceeds "+strconv.FormatInt(maxBytes, 10)+" bytes")

			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
