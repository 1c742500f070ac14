package behavior

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bjaus/mediator"
)

// RateLimit returns a behavior that waits for a token from limiter before
// continuing. The wait ends early with ctx's error when ctx is done first.
//
// Example:
//
//	// 2 requests per second, burst 2
//	mediator.AddBehaviorWhen(c, isOutbound, behavior.RateLimit(rate.NewLimiter(rate.Limit(2), 2)))
func RateLimit(limiter *rate.Limiter) mediator.Behavior {
	return func(ctx context.Context, _ any, next mediator.Next) (any, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return next(ctx)
	}
}
