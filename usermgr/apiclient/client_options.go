package apiclient

import (
	"time"

	"github.com/steelcutops/usermgr/logger"
)

type ClientOption func(*Client)

// WithTimeout returns a ClientOption that sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTokenSource returns a ClientOption that sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRequestIDs returns a ClientOption that overrides how X-Request-ID values are generated.
func WithRequestIDs(gen func() string) ClientOption {
	return func(c *Client) {
		c.newRequestID = gen
	}
}

// WithLogger returns a ClientOption that sets the logger used for request tracing.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}
