package apiclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:        maxRetries,
		InitialDelay:      10 * time.Millisecond,
		MaxDelay:          100 * time.Millisecond,
		Multiplier:        2.0,
		RespectRetryAfter: true,
	}
}

// TestRetryWithBackoff tests basic retry logic.
func TestRetryWithBackoff(t *testing.T) {
	t.Run("Success on first attempt", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
			attempts++
			return nil
		})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if attempts != 1 {
			t.Errorf("Expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("Success after retries", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("temporary error")
			}
			return nil
		})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if attempts != 3 {
			t.Errorf("Expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("Max retries exceeded", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
			attempts++
			return errors.New("persistent error")
		})

		if err == nil {
			t.Error("Expected error after max retries")
		}
		// Should attempt: initial + 3 retries = 4 total
		if attempts != 4 {
			t.Errorf("Expected 4 attempts (initial + 3 retries), got %d", attempts)
		}
	})

	t.Run("Permanent error stops immediately", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), fastRetryConfig(5), func() error {
			attempts++
			return Permanent(ErrNotFound)
		})

		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got: %v", err)
		}
		if attempts != 1 {
			t.Errorf("Expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("Context cancellation", func(t *testing.T) {
		attempts := 0
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := RetryWithBackoff(ctx, DefaultRetryConfig(), func() error {
			attempts++
			return errors.New("error")
		})

		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled error, got: %v", err)
		}
		if attempts > 1 {
			t.Errorf("Expected at most 1 attempt, got %d", attempts)
		}
	})

	t.Run("Context timeout during retry", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		config := RetryConfig{
			MaxRetries:   10,
			InitialDelay: 100 * time.Millisecond, // Longer than timeout
			MaxDelay:     time.Second,
			Multiplier:   2.0,
		}

		start := time.Now()
		err := RetryWithBackoff(ctx, config, func() error {
			return errors.New("error")
		})
		elapsed := time.Since(start)

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline exceeded, got: %v", err)
		}
		if elapsed > 200*time.Millisecond {
			t.Errorf("Expected quick timeout, took %v", elapsed)
		}
	})

	t.Run("Max delay cap", func(t *testing.T) {
		attempts := 0
		config := RetryConfig{
			MaxRetries:   10,
			InitialDelay: 10 * time.Millisecond,
			MaxDelay:     20 * time.Millisecond,
			Multiplier:   2.0,
		}

		start := time.Now()
		err := RetryWithBackoff(context.Background(), config, func() error {
			attempts++
			if attempts < 5 {
				return errors.New("error")
			}
			return nil
		})
		elapsed := time.Since(start)

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		// Uncapped: 10+20+40+80 = 150ms. Capped: 10+20+20+20 = 70ms.
		if elapsed > 120*time.Millisecond {
			t.Errorf("Expected max delay cap to limit total time, took %v", elapsed)
		}
	})

	t.Run("Respects Retry-After", func(t *testing.T) {
		attempts := 0
		config := fastRetryConfig(1)
		config.InitialDelay = time.Millisecond

		start := time.Now()
		err := RetryWithBackoff(context.Background(), config, func() error {
			attempts++
			if attempts == 1 {
				return &RateLimitError{
					StatusCode: 429,
					RetryAfter: 60 * time.Millisecond,
					Message:    "Rate limit exceeded",
					Headers:    RateLimitHeaders{Limit: -1, Remaining: -1},
				}
			}
			return nil
		})
		elapsed := time.Since(start)

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if elapsed < 60*time.Millisecond {
			t.Errorf("Expected to wait for Retry-After, took %v", elapsed)
		}
	})
}

// TestRetryWithBackoffResult tests retry with result return.
func TestRetryWithBackoffResult(t *testing.T) {
	t.Run("Success with result", func(t *testing.T) {
		attempts := 0
		result, err := RetryWithBackoffResult(context.Background(), fastRetryConfig(3), func() (string, error) {
			attempts++
			if attempts < 2 {
				return "", errors.New("temporary error")
			}
			return "success", nil
		})

		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
		if result != "success" {
			t.Errorf("Expected result 'success', got %s", result)
		}
		if attempts != 2 {
			t.Errorf("Expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("Failure returns zero value", func(t *testing.T) {
		result, err := RetryWithBackoffResult(context.Background(), fastRetryConfig(1), func() (int, error) {
			return 0, errors.New("persistent error")
		})

		if err == nil {
			t.Error("Expected error")
		}
		if result != 0 {
			t.Errorf("Expected zero value (0), got %d", result)
		}
	})
}

// TestDefaultRetryConfig tests default configuration.
func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries 3, got %d", config.MaxRetries)
	}
	if config.InitialDelay != time.Second {
		t.Errorf("Expected InitialDelay 1s, got %v", config.InitialDelay)
	}
	if config.MaxDelay != 60*time.Second {
		t.Errorf("Expected MaxDelay 60s, got %v", config.MaxDelay)
	}
	if !config.RespectRetryAfter {
		t.Error("Expected RespectRetryAfter enabled")
	}
}

// TestRetryPreservesError tests that original error is returned.
func TestRetryPreservesError(t *testing.T) {
	expectedErr := errors.New("specific error message")

	err := RetryWithBackoff(context.Background(), fastRetryConfig(2), func() error {
		return expectedErr
	})

	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error to be preserved, got: %v", err)
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay:      time.Second,
		MaxDelay:          5 * time.Second,
		Multiplier:        2.0,
		RespectRetryAfter: true,
	}
	plain := errors.New("server error")

	tests := []struct {
		name    string
		attempt int
		err     error
		want    time.Duration
	}{
		{"first retry", 0, plain, time.Second},
		{"doubles", 2, plain, 4 * time.Second},
		{"capped", 5, plain, 5 * time.Second},
		{"retry after wins", 0, &RateLimitError{RetryAfter: 30 * time.Second, Headers: RateLimitHeaders{Remaining: -1}}, 30 * time.Second},
		{"no retry after", 1, &RateLimitError{Headers: RateLimitHeaders{Remaining: 0, Limit: 10}}, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backoff(cfg, tt.attempt, tt.err); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	cfg.RespectRetryAfter = false
	rle := &RateLimitError{RetryAfter: 30 * time.Second, Headers: RateLimitHeaders{Remaining: -1}}
	if got := backoff(cfg, 0, rle); got != time.Second {
		t.Errorf("Expected Retry-After ignored, got %v", got)
	}
}
