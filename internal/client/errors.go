package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a rejection from the backend: the request completed but the
// server refused it. The message comes from the backend's error envelope and
// is meant to be shown to the user as-is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server rejected request (%d)", e.StatusCode)
}

// errorEnvelope matches the backend's {"message": "..."} error body.
type errorEnvelope struct {
	Message string `json:"message"`
}

func errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil && env.Message != "" {
			apiErr.Message = env.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
