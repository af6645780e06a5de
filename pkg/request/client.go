// Package request provides the HTTP client used to fetch the static
// GeoJSON documents at startup, with bounded retries and exponential
// backoff.
package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"flowmapgo/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("flowmapgo/%s", version.Version)

// ClientConfig holds retry and timeout settings.
type ClientConfig struct {
	Retries   int
	Timeout   time.Duration
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Client performs GET requests with exponential backoff on transient
// failures (network errors, 429, 5xx). There is no caching and no
// request queue: the loader issues exactly two sequential fetches.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
}

// New creates a new Client. Zero config fields fall back to defaults.
func New(cfg ClientConfig) *Client {
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// Get fetches the document at u and returns its body.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	return c.executeWithBackoff(req)
}

// executeWithBackoff attempts the request with exponential backoff on
// retryable errors.
func (c *Client) executeWithBackoff(req *http.Request) ([]byte, error) {
	for attempt := 0; attempt < c.cfg.Retries; attempt++ {
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}

		slog.Debug("Network Request", "host", req.URL.Host, "path", req.URL.Path, "attempt", attempt+1)
		resp, err := c.httpClient.Do(req)

		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			slog.Warn("Request failed, retrying", "url", req.URL, "attempt", attempt+1, "error", err)
			if err := c.sleep(req.Context(), attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode < 600) {
			resp.Body.Close()
			slog.Warn("Server backoff", "status", resp.StatusCode, "url", req.URL, "attempt", attempt+1)
			if err := c.sleep(req.Context(), attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch error: status %d for %s", resp.StatusCode, req.URL)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded for %s", req.URL)
}

// sleep waits the backoff delay for the given attempt, aborting early
// if the context is cancelled.
func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := time.Duration(math.Pow(2, float64(attempt))) * c.cfg.BaseDelay
	if delay > c.cfg.MaxDelay {
		delay = c.cfg.MaxDelay
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
