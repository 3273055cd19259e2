package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend failures. Redis errors are mapped onto these by [redisError], so
// callers can branch with errors.Is without importing go-redis.
var (
	// ErrUnavailable means the Redis server could not be reached or did not
	// answer in time. It is the only retryable failure.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrClosed is returned by operations on a cache after Close.
	ErrClosed = errors.New("cache closed")

	// ErrAuth means Redis refused the configured credentials.
	ErrAuth = errors.New("cache authentication failed")

	// ErrRejected wraps any other error reply from Redis, e.g. WRONGTYPE or OOM.
	ErrRejected = errors.New("cache backend rejected command")

	// ErrNoPrefix is returned by Clear on a cache without a key prefix.
	ErrNoPrefix = errors.New("refusing to clear cache without a key prefix")
)

// redisError classifies a go-redis error. redis.Nil is not an error here and
// must be handled by the caller. Caller cancellation passes through unchanged.
func redisError(op string, err error) error {
	var reply redis.Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, redis.ErrClosed):
		return fmt.Errorf("%w: %s", ErrClosed, op)
	case redis.IsAuthError(err):
		return fmt.Errorf("%w: %s: %v", ErrAuth, op, err)
	case errors.As(err, &reply):
		return fmt.Errorf("%w: %s: %v", ErrRejected, op, err)
	case isTransient(err):
		return Retryable(fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// isTransient reports connection-level failures that may clear on their own.
func isTransient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, redis.ErrPoolTimeout) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// RetryableError marks an error as worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff delay; tests shorten it.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn up to 3 times, doubling the delay after each
// retryable failure. Any other error is returned at once.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
