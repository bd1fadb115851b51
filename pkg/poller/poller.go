// Package poller provides the retry, backoff and timeout primitives used
// by the publish pipeline. The combinators are side-effect free and carry
// no domain types, so they can be tested in isolation.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	jitterbug "github.com/lthibault/jitterbug/v2"
)

const (
	DefaultMaxAttempts  = 60
	DefaultInitialDelay = 500 * time.Millisecond
	DefaultDelayCap     = 10 * time.Second

	backoffFactor = 1.5
)

// Probe reports whether a value is available yet. Returning ok=false means
// "not ready, try again"; an error is treated the same way unless it is
// marked Permanent.
type Probe[T any] func(ctx context.Context) (T, bool, error)

type options struct {
	maxAttempts  int
	initialDelay time.Duration
	delayCap     time.Duration
	jitter       jitterbug.Jitter
	linear       bool
}

type Option func(*options)

func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

func WithInitialDelay(d time.Duration) Option {
	return func(o *options) { o.initialDelay = d }
}

func WithDelayCap(d time.Duration) Option {
	return func(o *options) { o.delayCap = d }
}

// WithJitter spreads the computed delays with the given jitterbug strategy,
// e.g. &jitterbug.Norm{Stdev: 50 * time.Millisecond}.
func WithJitter(j jitterbug.Jitter) Option {
	return func(o *options) { o.jitter = j }
}

// WithLinearDelay makes Retry grow its delay linearly (delay, 2*delay, ...)
// instead of keeping it fixed.
func WithLinearDelay() Option {
	return func(o *options) { o.linear = true }
}

func newOptions(opts ...Option) options {
	o := options{
		maxAttempts:  DefaultMaxAttempts,
		initialDelay: DefaultInitialDelay,
		delayCap:     DefaultDelayCap,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ExhaustedError is returned when a probe or operation never succeeded
// within the configured attempt budget. It wraps the last observed error,
// if any.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
	}
	return fmt.Sprintf("gave up after %d attempts: no result", e.Attempts)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// TimeoutError is returned by WithTimeout when the time budget expires
// before the operation settles. The underlying operation may still be in
// flight; callers must treat the real outcome as unknown.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s; the underlying operation may still complete", e.Limit)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable. PollUntil and Retry stop
// immediately and return the wrapped error as-is.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// PollUntil repeatedly invokes probe until it yields a value, backing off
// exponentially (factor 1.5, capped) between attempts. A probe error on a
// non-final attempt is retried like a "not ready"; on the final attempt it
// propagates wrapped with the attempt count.
func PollUntil[T any](ctx context.Context, probe Probe[T], opts ...Option) (T, error) {
	var zero T
	o := newOptions(opts...)

	delay := o.initialDelay
	var lastErr error

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		v, ok, err := probe(ctx)
		if err == nil && ok {
			return v, nil
		}
		if err != nil {
			var perm *permanentError
			if errors.As(err, &perm) {
				return zero, perm.err
			}
			lastErr = err
		}

		if attempt == o.maxAttempts {
			break
		}
		if err := sleep(ctx, o.withJitter(delay)); err != nil {
			return zero, err
		}
		delay = nextDelay(delay, o.delayCap)
	}

	return zero, &ExhaustedError{Attempts: o.maxAttempts, Last: lastErr}
}

// Retry invokes op until it succeeds, retrying on failure only, with a
// fixed (or linear, see WithLinearDelay) delay between attempts. The last
// error is returned once the attempt budget is exhausted.
func Retry(ctx context.Context, op func(ctx context.Context) error, maxRetries int, delay time.Duration, opts ...Option) error {
	o := newOptions(opts...)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}
		wait := delay
		if o.linear {
			wait = time.Duration(attempt) * delay
		}
		if err := sleep(ctx, o.withJitter(wait)); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: maxRetries, Last: lastErr}
}

// WithTimeout races op against a timer. If the timer wins, a TimeoutError
// is returned and the waiting side is released; op keeps running in its
// goroutine until it observes the cancelled context.
func WithTimeout[T any](ctx context.Context, limit time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	// Buffered so the operation goroutine never leaks on timeout.
	done := make(chan result, 1)

	go func() {
		v, err := op(opCtx)
		done <- result{v: v, err: err}
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		return zero, &TimeoutError{Limit: limit}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// nextDelay grows delay by the backoff factor, never exceeding cap.
func nextDelay(delay, cap time.Duration) time.Duration {
	next := time.Duration(float64(delay) * backoffFactor)
	if next > cap {
		return cap
	}
	return next
}

func (o options) withJitter(d time.Duration) time.Duration {
	if o.jitter == nil {
		return d
	}
	return o.jitter.Jitter(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
