package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Attempt is one way of producing a result. A non-zero Timeout bounds this
// attempt alone, so a stalled attempt still leaves time for the next one.
type Attempt[T any] struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) (T, error)
}

func (a Attempt[T]) run(ctx context.Context) (T, error) {
	if a.Timeout <= 0 {
		return a.Run(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	return a.Run(ctx)
}

// FirstSuccess runs attempts in order and returns the first result that
// succeeds. When all fail the joined error names every attempt. A cancelled
// parent context stops the chain.
func FirstSuccess[T any](ctx context.Context, attempts ...Attempt[T]) (T, error) {
	var zero T
	if len(attempts) == 0 {
		return zero, errors.New("no attempts configured")
	}
	errs := make([]error, 0, len(attempts))
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := a.run(ctx)
		if err == nil {
			return res, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
	}
	return zero, errors.Join(errs...)
}
