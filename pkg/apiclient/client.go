// Package apiclient holds the HTTP plumbing shared by the external data
// sources: a rate limited JSON GET, rate limit error decoding and
// retry with exponential backoff.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout for API requests
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the upstream API answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response other than 404 and 429.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// permanentError marks an error that retrying will not fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so RetryWithBackoffResult returns it without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Client performs rate limited JSON GET requests against one base URL.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Config contains configuration for a Client.
type Config struct {
	BaseURL string

	// RequestsPerSecond is the sustained request rate (burst of 1).
	// Zero disables rate limiting.
	RequestsPerSecond float64

	Timeout   time.Duration
	UserAgent string
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
		userAgent:   cfg.UserAgent,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request HTTP timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// GetJSON fetches baseURL+path and decodes the JSON body into out.
//
// A 404 yields ErrNotFound and a 429 yields *RateLimitError. Client errors
// other than 429 are marked Permanent.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return Permanent(fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return newRateLimitError(resp)
	case resp.StatusCode == http.StatusNotFound:
		return Permanent(ErrNotFound)
	case resp.StatusCode == http.StatusNoContent:
		return Permanent(ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		if resp.StatusCode < 500 {
			return Permanent(statusErr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Permanent(fmt.Errorf("parse response: %w", err))
	}
	return nil
}
