package behavior

import (
	"context"
	"time"

	"github.com/bjaus/mediator"
)

// Timeout returns a behavior that bounds the rest of the pipeline with a
// deadline. Cancellation is cooperative: handlers must watch ctx and return
// context.DeadlineExceeded. A non-positive d disables the deadline.
func Timeout(d time.Duration) mediator.Behavior {
	return func(ctx context.Context, _ any, next mediator.Next) (any, error) {
		if d <= 0 {
			return next(ctx)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx)
	}
}
