package behavior

import (
	"context"

	"github.com/google/uuid"

	"github.com/bjaus/mediator"
)

type correlationKey struct{}

// WithCorrelationID returns a context carrying id as the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation ID carried by ctx.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}

// Correlation returns a behavior that makes sure every request carries a
// correlation ID. An ID already in the context is kept, so nested sends from
// inside a handler share the caller's ID; otherwise a random UUID is added.
func Correlation() mediator.Behavior {
	return func(ctx context.Context, _ any, next mediator.Next) (any, error) {
		if _, ok := CorrelationID(ctx); !ok {
			ctx = WithCorrelationID(ctx, uuid.NewString())
		}
		return next(ctx)
	}
}
