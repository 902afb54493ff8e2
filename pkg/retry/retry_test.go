package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/shopsphere/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fastConfig(attempts int) retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: attempts,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}
}

func TestDo(t *testing.T) {
	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), fastConfig(3), func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ReturnsLastError", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), fastConfig(2), func() error {
			calls++
			return errTransient
		})
		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 2, calls)
	})

	t.Run("NonRetryable", func(t *testing.T) {
		cfg := fastConfig(5)
		cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, errTransient) }

		var calls int
		err := retry.Do(t.Context(), cfg, func() error {
			calls++
			return errTransient
		})
		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		var calls int
		err := retry.Do(ctx, fastConfig(3), func() error {
			calls++
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("CanceledWhileWaiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cfg := retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Hour),
		}

		err := retry.Do(ctx, cfg, func() error {
			cancel()
			return errTransient
		})
		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, err, errTransient)
	})
}

func TestDoWithResult(t *testing.T) {
	var calls int
	v, err := retry.DoWithResult(t.Context(), fastConfig(2), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errTransient
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestBackoff(t *testing.T) {
	linear := retry.LinearBackoff(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, linear(1))
	assert.Equal(t, 150*time.Millisecond, linear(3))

	exp := retry.ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := time.Duration(1<<attempt) * 10 * time.Millisecond
		d := exp(attempt)
		assert.Greater(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}
