package elc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("invalid elc parameters")

// APIError is an error reported by the ELC service, either as a non-200
// status or as an "error" object in a 200 body.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	if e.Code != 0 {
		return fmt.Sprintf("elc error %d (status %d): %s", e.Code, e.StatusCode, msg)
	}
	return fmt.Sprintf("elc status %d: %s", e.StatusCode, msg)
}

// Temporary reports whether a retry might succeed.
func (e *APIError) Temporary() bool {
	return isRetryableStatus(e.StatusCode) || isRetryableStatus(e.Code)
}

type errorEnvelope struct {
	Error *struct {
		Code    int      `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

// parseAPIError returns nil when body carries no error object.
func parseAPIError(status int, body []byte) *APIError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return nil
	}
	return &APIError{
		StatusCode: status,
		Code:       env.Error.Code,
		Message:    env.Error.Message,
		Details:    env.Error.Details,
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidParams) || errors.Is(err, ErrUnexpectedResponse) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
