package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a structured error response from the tradelens API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("tradelens: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("tradelens: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func statusOf(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 (for example an unknown dataset kind).
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsInvalid reports whether the server rejected the request body.
func IsInvalid(err error) bool {
	s := statusOf(err)
	return s == http.StatusBadRequest || s == http.StatusRequestEntityTooLarge
}

// IsRateLimited reports whether err is a 429 rate limit.
func IsRateLimited(err error) bool {
	return statusOf(err) == http.StatusTooManyRequests
}

// IsUnavailable reports whether the server answered 5xx.
func IsUnavailable(err error) bool {
	return statusOf(err) >= http.StatusInternalServerError
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
