package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for a WireMock server's admin API.
// It performs exactly one network round trip per call and holds no
// state beyond the base URL and the underlying transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the default transport with a caller-supplied one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new admin client. baseURL is the admin root, e.g.
// "http://localhost:8080/__admin".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the admin root URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks that the server answers on the admin health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Call(ctx, http.MethodGet, "health", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Call performs one admin API round trip and decodes the JSON response
// into a generic mapping.
//
// body is serialized only when non-empty. A response with status < 400
// whose body is empty, not valid JSON, or not a JSON object decodes to
// an empty mapping; callers read expected fields defensively. A status
// >= 400 or a transport failure yields a *GatewayError; a body that
// cannot be serialized yields a *SerializationError without any network
// call being made.
func (c *Client) Call(ctx context.Context, method, path string, body map[string]any) (map[string]any, error) {
	var payload io.Reader
	if len(body) > 0 {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &SerializationError{Err: err}
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, payload)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		// Non-JSON or non-object success bodies are tolerated.
		return map[string]any{}, nil
	}
	return decoded, nil
}
