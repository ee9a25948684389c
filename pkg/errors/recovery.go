package errors

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/compozy/demoutils/engine/core"
	"github.com/compozy/demoutils/pkg/logger"
)

// -----
// Recovery Functions
// -----

// WithRecover executes a function with panic recovery
func WithRecover(operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("panic recovered",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)

			// Convert panic to error
			switch v := r.(type) {
			case error:
				err = v
			case string:
				err = errors.New(v)
			default:
				err = fmt.Errorf("panic: %v", v)
			}

			err = core.NewError(err, core.ErrorCodePanicRecovered, map[string]any{
				"operation": operation,
				"panic":     fmt.Sprintf("%v", r),
			})
		}
	}()

	return fn()
}

// -----
// Retry Mechanisms using retry-go
// -----

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxAttempts     uint
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	RetryableErrors []core.ErrorCode // Error codes that should trigger retry
}

// DefaultRetryConfig returns sensible defaults
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		RetryableErrors: []core.ErrorCode{
			core.ErrorCodeAddrInUse,
		},
	}
}

func retryOptions(ctx context.Context, operation string, config *RetryConfig) []retry.Option {
	return []retry.Option{
		retry.Attempts(config.MaxAttempts),
		retry.Delay(config.InitialDelay),
		retry.MaxDelay(config.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("operation failed, retrying",
				"operation", operation,
				"attempt", n+1,
				"max_attempts", config.MaxAttempts,
				"error", err,
			)
		}),
		// Only retry if the error is retryable
		retry.RetryIf(func(err error) bool {
			return isRetryable(err, config.RetryableErrors)
		}),
	}
}

// WithRetryTyped executes a function with retry logic and returns a typed result
func WithRetryTyped[T any](
	ctx context.Context,
	operation string,
	config *RetryConfig,
	fn func() (T, error),
) (T, error) {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var result T
	err := retry.Do(func() error {
		var retryErr error
		result, retryErr = fn()
		return retryErr
	}, retryOptions(ctx, operation, config)...)

	if err != nil {
		// Still retryable after the last attempt means we ran out of attempts
		if isRetryable(err, config.RetryableErrors) {
			return result, core.NewError(err, core.ErrorCodeMaxRetriesExceeded, map[string]any{
				"operation": operation,
				"attempts":  config.MaxAttempts,
			})
		}
		return result, err
	}

	return result, nil
}

// isRetryable checks if an error should trigger a retry
func isRetryable(err error, retryableCodes []core.ErrorCode) bool {
	for _, code := range retryableCodes {
		if core.HasCode(err, code) {
			return true
		}
	}
	return false
}
