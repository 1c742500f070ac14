package behavior

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bjaus/mediator"
)

// meterName is the instrumentation scope name for mediator metrics.
const meterName = "github.com/bjaus/mediator"

// Metrics returns a behavior that records per-request metrics using the
// global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used.
//
// Instruments:
//   - mediator.request.duration (Float64Histogram): seconds, by request and status
//   - mediator.request.count (Int64Counter): calls, by request and status
func Metrics() mediator.Behavior {
	return MetricsWithMeter(otel.Meter(meterName))
}

// MetricsWithMeter returns metrics behavior using the provided meter.
func MetricsWithMeter(meter metric.Meter) mediator.Behavior {
	// On error the API returns noop instruments.
	duration, _ := meter.Float64Histogram(
		"mediator.request.duration",
		metric.WithDescription("Duration of request handling in seconds"),
		metric.WithUnit("s"),
	)
	count, _ := meter.Int64Counter(
		"mediator.request.count",
		metric.WithDescription("Total number of requests handled"),
		metric.WithUnit("{request}"),
	)

	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		start := time.Now()
		response, err := next(ctx)
		elapsed := time.Since(start).Seconds()

		attrs := metric.WithAttributes(
			attribute.String("request", RequestName(request)),
			attribute.String("status", status(err)),
		)
		duration.Record(ctx, elapsed, attrs)
		count.Add(ctx, 1, attrs)

		return response, err
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
