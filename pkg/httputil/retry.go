package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxRetryDelay caps the doubling backoff between attempts.
const MaxRetryDelay = 5 * time.Second

// RetryableError marks a failure as transient. [Retry] repeats only
// operations whose error chain contains one.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry runs fn at least once and at most attempts times. After each
// transient failure it waits delay, doubling up to [MaxRetryDelay]. It
// returns nil on success, the first permanent error, the last transient
// error once attempts run out, or ctx.Err() if ctx ends during a wait.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for left := max(attempts, 1); ; left-- {
		if err = fn(); err == nil || !IsRetryable(err) || left == 1 {
			return err
		}
		if werr := wait(ctx, delay); werr != nil {
			return werr
		}
		delay = min(2*delay, MaxRetryDelay)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
