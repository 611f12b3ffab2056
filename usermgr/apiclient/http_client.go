package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/steelcutops/usermgr/logger"
)

// Client is the HTTP implementation of Requester.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokens       TokenSource
	newRequestID func() string
	log          logger.Logger
}

func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		newRequestID: uuid.NewString,
		log:          logger.Discard(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := c.newRequestID()
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil {
		// A missing token is not an error here; the server answers 401.
		if token, err := c.tokens.Token(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("API request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	result := &Response{
		Status:    resp.StatusCode,
		Body:      data,
		RequestID: requestID,
		Duration:  time.Since(start),
	}
	c.log.Debug("API request", "method", method, "path", path, "status", result.Status, "request_id", requestID, "duration", result.Duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseError(method, path, result)
	}
	return result, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func parseError(method, path string, resp *Response) error {
	httpErr := &HTTPError{Method: method, Path: path, Status: resp.Status}

	var body errorBody
	if json.Unmarshal(resp.Body, &body) == nil {
		if body.Message != "" {
			httpErr.Message = body.Message
		} else {
			httpErr.Message = body.Error
		}
	}
	return httpErr
}
