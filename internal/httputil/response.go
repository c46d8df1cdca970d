// Package httputil holds the JSON error envelope shared by the API and its middleware.
package httputil

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RequestID returns the id stored by the request ID middleware, or "".
func RequestID(c *gin.Context) string {
	if rid, ok := c.Get("request_id"); ok {
		if s, ok := rid.(string); ok {
			return s
		}
	}

	return ""
}

// RespondError aborts the request with an ErrorBody.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: RequestID(c),
	})
}
