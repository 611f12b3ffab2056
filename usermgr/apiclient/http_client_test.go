package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.HandlerFunc, options ...ClientOption) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+"/", options...)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)

	c = NewClient("http://localhost:8080", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestRequestSendsHeadersAndBody(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotID, gotType string
	var gotBody map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get("X-Request-ID")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}, WithTokenSource(staticTokens{token: "abc"}), WithRequestIDs(func() string { return "req-1" }))

	resp, err := c.Request(context.Background(), http.MethodPut, "/users/7", map[string]string{"login": "alice"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/users/7", gotPath)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "req-1", gotID)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]string{"login": "alice"}, gotBody)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "req-1", resp.RequestID)

	var decoded map[string]bool
	require.NoError(t, resp.Decode(&decoded))
	assert.True(t, decoded["ok"])
}

func TestRequestWithoutTokenOmitsAuthorization(t *testing.T) {
	var gotAuth string
	var hadBody bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		hadBody = len(data) > 0
		w.WriteHeader(http.StatusNoContent)
	}, WithTokenSource(staticTokens{err: errors.New("no token")}))

	resp, err := c.Request(context.Background(), http.MethodDelete, "/users/1", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.False(t, hadBody)
	assert.Equal(t, http.StatusNoContent, resp.Status)
}

func TestRequestErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"unauthorized with message", http.StatusUnauthorized, `{"message":"Invalid token"}`, "Invalid token"},
		{"server error with error field", http.StatusInternalServerError, `{"error":"boom"}`, "boom"},
		{"plain body", http.StatusBadGateway, `upstream down`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Request(context.Background(), http.MethodGet, "/users", nil)
			require.Error(t, err)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.Equal(t, tt.status, StatusCode(fmt.Errorf("wrapped: %w", err)))
			assert.Equal(t, tt.status == http.StatusUnauthorized, IsUnauthorized(err))
		})
	}
}

func TestRequestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(url)
	_, err := c.Request(context.Background(), http.MethodGet, "/users", nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestDecodeEmptyBody(t *testing.T) {
	r := &Response{Status: http.StatusOK}
	var v interface{}
	assert.Error(t, r.Decode(&v))
}

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{Method: "GET", Path: "/users", Status: 401}
	assert.Equal(t, "GET /users: request failed: status 401", err.Error())

	err.Message = "expired"
	assert.Equal(t, "GET /users: status 401: expired", err.Error())
}
