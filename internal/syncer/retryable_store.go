package syncer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// RetryConfig defines retry behavior for object store operations.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns sensible defaults for remote stores.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryableStore wraps an ObjectStore with retry logic. It sits below
// the syncer: the syncer itself never retries, the transport may.
// Not-found results and context cancellation are never retried.
type RetryableStore struct {
	store  ObjectStore
	config RetryConfig
}

// NewRetryableStore creates a new retryable store wrapper.
func NewRetryableStore(store ObjectStore, config RetryConfig) *RetryableStore {
	return &RetryableStore{store: store, config: config}
}

// Get implements ObjectStore with retry logic.
func (r *RetryableStore) Get(ctx context.Context, key string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, r.calculateDelay(attempt)); err != nil {
				return nil, err
			}
		}
		result, err := r.store.Get(ctx, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrObjectNotFound) {
			return nil, err
		}
		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}
	return nil, fmt.Errorf("get failed after %d attempts: %w", r.config.MaxAttempts, lastErr)
}

// Put implements ObjectStore with retry logic.
func (r *RetryableStore) Put(ctx context.Context, key string, data []byte) error {
	var lastErr error
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, r.calculateDelay(attempt)); err != nil {
				return err
			}
		}
		err := r.store.Put(ctx, key, data)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}
	return fmt.Errorf("put failed after %d attempts: %w", r.config.MaxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// calculateDelay implements exponential backoff with jitter.
func (r *RetryableStore) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	// Jitter (±25%)
	jitter := delay * 0.25 * (2*float64(time.Now().UnixNano()%1000)/1000 - 1)
	return time.Duration(delay + jitter)
}

// isRetryableError determines if an error should be retried.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"service unavailable",
		"server error",
		"throttling",
		"SlowDown",
		"RequestTimeout",
		"RequestTimeoutException",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
