package errors_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/compozy/demoutils/engine/core"
	apperrors "github.com/compozy/demoutils/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts uint) *apperrors.RetryConfig {
	return &apperrors.RetryConfig{
		MaxAttempts:     attempts,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		RetryableErrors: []core.ErrorCode{core.ErrorCodeAddrInUse},
	}
}

func busy() error {
	return core.NewError(errors.New("address already in use"), core.ErrorCodeAddrInUse, nil)
}

func TestWithRecover(t *testing.T) {
	t.Run("Should pass through the function error", func(t *testing.T) {
		want := errors.New("plain failure")
		err := apperrors.WithRecover("op", func() error { return want })
		assert.Equal(t, want, err)
	})

	t.Run("Should convert a string panic", func(t *testing.T) {
		err := apperrors.WithRecover("op", func() error { panic("boom") })
		require.Error(t, err)
		assert.True(t, core.HasCode(err, core.ErrorCodePanicRecovered))
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("Should keep an error panic unwrappable", func(t *testing.T) {
		cause := errors.New("cause")
		err := apperrors.WithRecover("op", func() error { panic(cause) })
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should convert any other panic value", func(t *testing.T) {
		err := apperrors.WithRecover("op", func() error { panic(42) })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic: 42")
	})
}

func TestWithRetryTyped(t *testing.T) {
	t.Run("Should return the first success", func(t *testing.T) {
		calls := 0
		got, err := apperrors.WithRetryTyped(context.Background(), "bind", fastRetry(5), func() (int, error) {
			calls++
			if calls < 3 {
				return 0, busy()
			}
			return 8000 + calls, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 8003, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("Should stop on a non-retryable error", func(t *testing.T) {
		calls := 0
		want := errors.New("permission denied")
		_, err := apperrors.WithRetryTyped(context.Background(), "bind", fastRetry(5), func() (int, error) {
			calls++
			return 0, want
		})
		assert.ErrorIs(t, err, want)
		assert.Equal(t, 1, calls)
	})

	t.Run("Should report exhaustion", func(t *testing.T) {
		calls := 0
		_, err := apperrors.WithRetryTyped(context.Background(), "bind", fastRetry(3), func() (int, error) {
			calls++
			return 0, busy()
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.True(t, core.HasCode(err, core.ErrorCodeMaxRetriesExceeded))
	})

	t.Run("Should use defaults for a nil config", func(t *testing.T) {
		got, err := apperrors.WithRetryTyped(context.Background(), "noop", nil, func() (string, error) { return "ok", nil })
		assert.NoError(t, err)
		assert.Equal(t, "ok", got)
	})
}
