package git

import (
	"context"
	stderrors "errors"
	"time"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// withDeadline races fn against timeout. fn receives a context that is
// canceled at the deadline; if fn ignores it, its eventual result is dropped
// into a buffered channel nobody reads. A result that arrives together with
// or after the deadline is reported as a timeout, never as success.
func withDeadline[T any](ctx context.Context, op string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(opCtx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		if expired(ctx, opCtx) {
			return zero, timeoutError(op, timeout)
		}
		return r.value, r.err
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return zero, errors.RepositoryError(op+" canceled").
				WithCause(ctx.Err()).
				WithContext("op", op).
				Build()
		}
		return zero, timeoutError(op, timeout)
	}
}

// expired reports whether the operation's own deadline fired while the parent is still live.
func expired(parent, opCtx context.Context) bool {
	return parent.Err() == nil && stderrors.Is(opCtx.Err(), context.DeadlineExceeded)
}

func timeoutError(op string, timeout time.Duration) error {
	return errors.TimeoutError(op+" exceeded deadline").
		WithCause(context.DeadlineExceeded).
		WithContext("op", op).
		WithContext("timeout", timeout.String()).
		Build()
}
