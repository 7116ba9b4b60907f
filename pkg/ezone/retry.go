package ezone

import (
	"context"
	"errors"
	"time"
)

type outcome int

const (
	outcomeOK outcome = iota
	outcomeRetryable
	outcomeFatal
)

// result is the outcome of a single attempt of a retried operation.
type result[T any] struct {
	value   T
	err     error
	outcome outcome
}

func ok[T any](value T) result[T] {
	return result[T]{value: value}
}

func retryable[T any](err error) result[T] {
	return result[T]{err: err, outcome: outcomeRetryable}
}

func fatal[T any](err error) result[T] {
	return result[T]{err: err, outcome: outcomeFatal}
}

// classify maps the outcome of a request to a result. Connection-level transport errors are retryable.
// Error responses, malformed responses and a cancelled caller are not.
func classify[T any](ctx context.Context, value T, err error) result[T] {
	if err == nil {
		return ok(value)
	}
	if ctx.Err() != nil {
		return fatal[T](err)
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.Retryable() {
		return retryable[T](err)
	}
	return fatal[T](err)
}

// runWithRetry calls op until it succeeds, fails fatally or has failed attempts times.
// Retryable failures are followed by a pause of backoff. A fatal failure returns its own error;
// running out of attempts returns an *ExhaustedRetriesError.
func runWithRetry[T any](ctx context.Context, attempts int, backoff time.Duration, op func(context.Context) result[T]) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		r := op(ctx)
		switch r.outcome {
		case outcomeOK:
			return r.value, nil
		case outcomeFatal:
			return zero, r.err
		}

		lastErr = r.err
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			return zero, err
		}
	}
	return zero, &ExhaustedRetriesError{Attempts: attempts, LastErr: lastErr}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
