package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Response encapsulates the result of an API request.
type Response struct {
	Status    int
	Body      []byte
	RequestID string
	Duration  time.Duration
}

// Decode unmarshals the JSON response body into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Requester sends a request to the user API. Body is JSON encoded when
// non-nil. Non-2xx answers come back as *HTTPError.
type Requester interface {
	Request(ctx context.Context, method, path string, body interface{}) (*Response, error)
}

// TokenSource supplies the bearer token attached to outgoing requests.
type TokenSource interface {
	Token() (string, error)
}

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: request failed: status %d", e.Method, e.Path, e.Status)
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from an HTTP response.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
