package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locksum/locksum/internal/service"
)

func fastRetryOpts(maxAttempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  maxAttempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastRetryOpts(3))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustionReturnsMaxRetries(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("still failing")
	}, fastRetryOpts(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("bad credentials"), Retryable: false}
	}, fastRetryOpts(3))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
