package mediator

import (
	"context"
	"reflect"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// FanOut decides how the handlers of one notification are run and how their
// failures are combined. A Mediator uses a single FanOut for its lifetime.
type FanOut interface {
	Publish(ctx context.Context, notification any, handlers []NotifyFunc) error
}

// FanOutFunc is a function adapter for FanOut.
type FanOutFunc func(ctx context.Context, notification any, handlers []NotifyFunc) error

// Publish implements the FanOut interface.
func (f FanOutFunc) Publish(ctx context.Context, notification any, handlers []NotifyFunc) error {
	return f(ctx, notification, handlers)
}

// Sequential returns a FanOut that calls handlers one at a time in resolution
// order. The first failure stops the remaining handlers and is returned
// unchanged. A panicking handler is not recovered; it propagates to the
// caller of Publish.
func Sequential() FanOut {
	return sequential{}
}

type sequential struct{}

func (sequential) Publish(ctx context.Context, notification any, handlers []NotifyFunc) error {
	for _, h := range handlers {
		if err := h(ctx, notification); err != nil {
			return err
		}
	}
	return nil
}

// Concurrent returns a FanOut that starts every handler without waiting for
// the others and waits for all of them. If any fail, the result is an
// *AggregateError holding every failure in resolution order. A panicking
// handler is reported as a *PanicError.
func Concurrent() FanOut {
	return concurrent{}
}

// ConcurrentLimit is like Concurrent but runs at most limit handlers at a
// time. A limit below one means no limit.
func ConcurrentLimit(limit int) FanOut {
	return concurrent{limit: limit}
}

type concurrent struct {
	limit int
}

func (c concurrent) Publish(ctx context.Context, notification any, handlers []NotifyFunc) error {
	errs := make([]error, len(handlers))

	var g errgroup.Group
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	for i, h := range handlers {
		g.Go(func() error {
			errs[i] = safeNotify(ctx, h, notification)
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &AggregateError{
		NotificationType: reflect.TypeOf(notification),
		Errors:           failed,
	}
}

// safeNotify runs a handler on its own goroutine, converting a panic into an
// error so it cannot take down the process.
func safeNotify(ctx context.Context, h NotifyFunc, notification any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h(ctx, notification)
}
