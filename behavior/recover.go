package behavior

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/bjaus/mediator"
)

// Recover returns a behavior that recovers from panics further down the
// pipeline. The panic is logged with a stack trace and returned as a
// *mediator.PanicError.
func Recover(logger *slog.Logger) mediator.Behavior {
	return func(ctx context.Context, request any, next mediator.Next) (response any, retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger.ErrorContext(ctx, "request handler panicked",
					slog.String("request", RequestName(request)),
					slog.Any("panic", r),
					slog.String("stack", string(stack)),
				)
				response = nil
				retErr = &mediator.PanicError{Value: r, Stack: stack}
			}
		}()
		return next(ctx)
	}
}
