package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var (
	ErrNotReady          = errors.New("not ready")
	ErrAttemptsExhausted = errors.New("poll attempts exhausted")
)

type Options struct {
	Interval time.Duration
	// MaxAttempts caps the number of probes. Zero polls until found or ctx is done.
	MaxAttempts uint
	// Notify observes probe errors; polling continues after them.
	Notify func(err error)
}

type Probe[T any] func(ctx context.Context) (value T, found bool, err error)

// Until runs probe immediately and then at a fixed interval until it reports found.
// Cancelling ctx is the only way to stop an uncapped wait.
func Until[T any](ctx context.Context, opts Options, probe Probe[T]) (T, error) {
	var zero T
	if opts.Interval <= 0 {
		return zero, fmt.Errorf("poll interval must be positive, got %s", opts.Interval)
	}
	op := func() (T, error) {
		v, found, err := probe(ctx)
		if err != nil {
			return zero, err
		}
		if !found {
			return zero, ErrNotReady
		}
		return v, nil
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(opts.Interval)),
		backoff.WithMaxElapsedTime(0),
	}
	if opts.MaxAttempts > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxTries(opts.MaxAttempts))
	}
	if opts.Notify != nil {
		notify := opts.Notify
		retryOpts = append(retryOpts, backoff.WithNotify(func(err error, _ time.Duration) {
			if !errors.Is(err, ErrNotReady) {
				notify(err)
			}
		}))
	}

	v, err := backoff.Retry(ctx, op, retryOpts...)
	if err == nil {
		return v, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}
	if errors.Is(err, ErrNotReady) {
		return zero, ErrAttemptsExhausted
	}
	return zero, fmt.Errorf("%w: %w", ErrAttemptsExhausted, err)
}
