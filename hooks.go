package mediator

import (
	"context"
	"time"
)

// OnDispatchFunc is called once the handlers for a request or notification
// have been resolved, just before they run. Use this to enrich the context
// with logging fields or trace spans. The returned context is used for the
// rest of the call.
type OnDispatchFunc func(ctx context.Context, key string) context.Context

// OnSuccessFunc is called after a Send or Publish completes successfully.
type OnSuccessFunc func(ctx context.Context, key string, duration time.Duration)

// OnFailureFunc is called after the pipeline or the fan-out fails.
type OnFailureFunc func(ctx context.Context, key string, err error, duration time.Duration)

// OnResolveErrorFunc is called when a request does not resolve to exactly
// one handler. It observes the error; it cannot suppress it.
type OnResolveErrorFunc func(ctx context.Context, key string, err error)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch     []OnDispatchFunc
	onSuccess      []OnSuccessFunc
	onFailure      []OnFailureFunc
	onResolveError []OnResolveErrorFunc
}

// WithOnDispatch adds a hook called just before the pipeline or fan-out runs.
// Multiple hooks are called in order, with context chaining through each.
//
// Example:
//
//	mediator.WithOnDispatch(func(ctx context.Context, key string) context.Context {
//	    return logx.WithCtx(ctx, slog.String("request", key))
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(m *Mediator) {
		m.hooks.onDispatch = append(m.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after a call succeeds.
// Multiple hooks are called in order.
//
// Example:
//
//	mediator.WithOnSuccess(func(ctx context.Context, key string, d time.Duration) {
//	    metrics.Timing("mediator.success", d, "request:"+key)
//	})
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(m *Mediator) {
		m.hooks.onSuccess = append(m.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after a call fails.
// Multiple hooks are called in order.
//
// Example:
//
//	mediator.WithOnFailure(func(ctx context.Context, key string, err error, d time.Duration) {
//	    metrics.Incr("mediator.failure", "request:"+key)
//	})
func WithOnFailure(fn OnFailureFunc) Option {
	return func(m *Mediator) {
		m.hooks.onFailure = append(m.hooks.onFailure, fn)
	}
}

// WithOnResolveError adds a hook called when a request resolves to no handler
// or to more than one. Multiple hooks are called in order.
func WithOnResolveError(fn OnResolveErrorFunc) Option {
	return func(m *Mediator) {
		m.hooks.onResolveError = append(m.hooks.onResolveError, fn)
	}
}

func (h *hooks) dispatch(ctx context.Context, key string) context.Context {
	for _, fn := range h.onDispatch {
		ctx = fn(ctx, key)
	}
	return ctx
}

func (h *hooks) complete(ctx context.Context, key string, err error, duration time.Duration) {
	if err != nil {
		for _, fn := range h.onFailure {
			fn(ctx, key, err, duration)
		}
		return
	}
	for _, fn := range h.onSuccess {
		fn(ctx, key, duration)
	}
}

func (h *hooks) resolveError(ctx context.Context, key string, err error) {
	for _, fn := range h.onResolveError {
		fn(ctx, key, err)
	}
}
