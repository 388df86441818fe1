package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails a fixed number of times before succeeding.
type flakyStore struct {
	inner    ObjectStore
	failures int
	calls    int
	err      error
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.inner.Get(ctx, key)
}

func (f *flakyStore) Put(ctx context.Context, key string, data []byte) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return f.inner.Put(ctx, key, data)
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetryableStore_RecoversFromTransientFailure(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	require.NoError(t, mem.Put(ctx, "k", []byte("v")))

	flaky := &flakyStore{inner: mem, failures: 2, err: errors.New("connection reset by peer")}
	r := NewRetryableStore(flaky, fastRetryConfig())

	got, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryableStore_ExhaustsAttempts(t *testing.T) {
	flaky := &flakyStore{inner: newMemStore(), failures: 10, err: errors.New("service unavailable")}
	r := NewRetryableStore(flaky, fastRetryConfig())

	err := r.Put(context.Background(), "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryableStore_DoesNotRetryNonRetryable(t *testing.T) {
	flaky := &flakyStore{inner: newMemStore(), failures: 10, err: errors.New("access denied")}
	r := NewRetryableStore(flaky, fastRetryConfig())

	_, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Equal(t, 1, flaky.calls)
}

func TestRetryableStore_NotFoundPassesThrough(t *testing.T) {
	r := NewRetryableStore(newMemStore(), fastRetryConfig())

	_, err := r.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("RequestTimeout")))
	assert.True(t, isRetryableError(errors.New("SlowDown: reduce request rate")))
	assert.False(t, isRetryableError(errors.New("NoSuchBucket")))
	assert.False(t, isRetryableError(context.Canceled))
	assert.False(t, isRetryableError(nil))
}
