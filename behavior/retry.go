package behavior

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/bjaus/mediator"
)

// Backoff computes the delay before a retry attempt.
type Backoff interface {
	// Delay returns how long to wait before retry attempt n (1-indexed).
	// Attempt 1 is the first retry after the initial failure.
	Delay(attempt int) time.Duration
}

// Constant always returns the same delay regardless of attempt number.
type Constant struct {
	Interval time.Duration
}

// Delay returns the fixed interval.
func (c Constant) Delay(_ int) time.Duration {
	return c.Interval
}

// Linear increases the delay linearly with the attempt number.
// Delay = min(Initial * attempt, Max).
type Linear struct {
	Initial time.Duration
	Max     time.Duration
}

// Delay returns Initial * attempt, capped at Max.
func (l Linear) Delay(attempt int) time.Duration {
	d := l.Initial * time.Duration(attempt)
	if l.Max > 0 && d > l.Max {
		return l.Max
	}
	return d
}

// Exponential doubles the delay each attempt.
// Delay = min(Initial * 2^(attempt-1), Max).
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
}

// Delay returns Initial * 2^(attempt-1), capped at Max.
func (e Exponential) Delay(attempt int) time.Duration {
	d := time.Duration(float64(e.Initial) * math.Pow(2, float64(attempt-1)))
	if e.Max > 0 && (d > e.Max || d < 0) {
		return e.Max
	}
	return d
}

// RetryPolicy configures the Retry behavior.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int

	// Backoff computes the wait between tries. Nil means no wait.
	Backoff Backoff

	// Retryable reports whether a failure is worth another try. Nil retries
	// everything except validation failures, panics and context errors.
	Retryable func(err error) bool
}

// Retry returns a behavior that calls the rest of the pipeline again when it
// fails, up to policy.Attempts times. It returns the last failure. Waiting
// between attempts stops early when ctx is done.
//
// Register Retry inside behaviors that should see a single call, such as
// Logging, and outside the ones that should see every attempt.
func Retry(policy RetryPolicy) mediator.Behavior {
	retryable := policy.Retryable
	if retryable == nil {
		retryable = defaultRetryable
	}

	return func(ctx context.Context, _ any, next mediator.Next) (any, error) {
		for attempt := 1; ; attempt++ {
			response, err := next(ctx)
			if err == nil || attempt >= policy.Attempts || !retryable(err) {
				return response, err
			}

			if policy.Backoff == nil {
				continue
			}
			timer := time.NewTimer(policy.Backoff.Delay(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return response, err
			case <-timer.C:
			}
		}
	}
}

func defaultRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, mediator.ErrHandlerPanic),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}
