package kite

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// Await runs fn with the host loop released: other instances and
// dispatches proceed while it blocks. fn receives a context canceled when
// the instance is unmounted. If the instance was unmounted while fn ran,
// the returned error matches ErrUnmounted.
//
// Render effects issued before Await are committed before fn starts.
func Await[T any](c *Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	in := c.inst
	if err := c.check(); err != nil {
		return zero, err
	}

	ctx, span := in.host.tracer.Start(in.std, "kite.await")
	defer span.End()

	s := in.host.sched
	in.setState(StateSuspended)
	s.leave()
	start := time.Now()

	var (
		v   T
		err error
	)
	func() {
		// Re-enter even if fn panics, so the body unwinds holding the loop.
		defer s.enter()
		v, err = fn(ctx)
	}()

	in.host.metrics.RecordAwait(time.Since(start))
	in.setState(StateRunning)

	if in.unmounted {
		span.SetStatus(codes.Error, "unmounted")
		return v, errors.Join(unmounted(in), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}
