package apiclient

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// RetryConfig configures retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int

	// InitialDelay is the initial backoff delay (default: 1 second)
	InitialDelay time.Duration

	// MaxDelay is the maximum backoff delay (default: 60 seconds)
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier (default: 2.0 for exponential)
	Multiplier float64

	// RespectRetryAfter uses Retry-After header if available (default: true)
	RespectRetryAfter bool
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Second,
		MaxDelay:          60 * time.Second,
		Multiplier:        2.0,
		RespectRetryAfter: true,
	}
}

// RetryableFunc is a function that can be retried.
type RetryableFunc func() error

// RetryWithBackoff executes a function with exponential backoff retry logic.
// Rate limit errors (HTTP 429) are handled by respecting Retry-After when set.
//
// Example usage:
//
//	err := RetryWithBackoff(ctx, DefaultRetryConfig(), func() error {
//	    _, err := client.GetObservation(ctx, "KCLT")
//	    return err
//	})
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn RetryableFunc) error {
	_, err := RetryWithBackoffResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryWithBackoffResult executes a function with exponential backoff and returns a result.
// Permanent errors (see Permanent) stop the loop immediately.
func RetryWithBackoffResult[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return result, fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		} else if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("retry cancelled: %w", err)
		}

		res, err := fn()
		if err == nil {
			return res, nil
		}

		result = res
		lastErr = err

		if IsPermanent(err) {
			return result, err
		}

		if attempt < cfg.MaxRetries {
			delay = backoff(cfg, attempt, err)
		}
	}

	return result, fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}

// backoff returns the wait before the next attempt: the exponential delay
// capped at MaxDelay, or the server's Retry-After for rate limited calls.
func backoff(cfg RetryConfig, attempt int, err error) time.Duration {
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt)))
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	rle, ok := IsRateLimitError(err)
	if !ok {
		return delay
	}
	if rle.Headers.Remaining >= 0 {
		log.Printf("⏳ Rate limit hit: %d/%d requests remaining, reset at %v",
			rle.Headers.Remaining, rle.Headers.Limit, rle.Headers.Reset)
	}
	if cfg.RespectRetryAfter && rle.RetryAfter > 0 {
		return rle.RetryAfter
	}
	return delay
}
