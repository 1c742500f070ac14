package behavior

import (
	"context"
	"log/slog"
	"time"

	"github.com/bjaus/mediator"
)

// Logging returns a behavior that logs request start and completion.
func Logging(logger *slog.Logger) mediator.Behavior {
	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		name := RequestName(request)
		logger.DebugContext(ctx, "request started",
			slog.String("request", name),
		)

		start := time.Now()
		response, err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "request failed",
				slog.String("request", name),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.InfoContext(ctx, "request completed",
				slog.String("request", name),
				slog.Duration("elapsed", elapsed),
			)
		}

		return response, err
	}
}
