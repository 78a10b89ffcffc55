// Package client implements waitlist.API over the remote HTTP endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// maxResponseBytes caps how much of a response body is decoded.
const maxResponseBytes = 1 << 20

// Config holds configuration for the endpoint client.
type Config struct {
	// Endpoint is the absolute URL serving both GET (stats) and POST (submit).
	Endpoint string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client talks to the waitlist endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ waitlist.API = (*Client)(nil)

// New creates a client for cfg.Endpoint.
func New(cfg Config) (*Client, error) {
	if err := ValidateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts rec as JSON and decodes the success flag from the reply.
// The status code is not inspected: an error body without a success field
// decodes as a rejection.
func (c *Client) Submit(ctx context.Context, rec waitlist.UserRecord) (waitlist.SubmitResult, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return waitlist.SubmitResult{}, fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return waitlist.SubmitResult{}, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var res waitlist.SubmitResult
	status, err := c.do(req, &res)
	if err != nil {
		return waitlist.SubmitResult{}, err
	}
	c.logger.Debug("waitlist submit response", "status", status, "success", res.Success)
	return res, nil
}

// Stats fetches the aggregate counters. Non-2xx replies are errors.
func (c *Client) Stats(ctx context.Context) (waitlist.Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return waitlist.Stats{}, fmt.Errorf("build stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var stats waitlist.Stats
	status, err := c.do(req, &stats)
	if err != nil {
		return waitlist.Stats{}, err
	}
	if status < 200 || status > 299 {
		return waitlist.Stats{}, &StatusError{Method: req.Method, Code: status}
	}
	return stats, nil
}

// do sends req and decodes the JSON body into out, returning the status code.
func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", req.Method, c.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response (status %d): %w", req.Method, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Method string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Method, e.Code, http.StatusText(e.Code))
}
