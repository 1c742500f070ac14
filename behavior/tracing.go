package behavior

import (
	"context"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bjaus/mediator"
)

// tracerName is the instrumentation scope name for mediator tracing.
const tracerName = "github.com/bjaus/mediator"

// Tracing returns a behavior that wraps the rest of the pipeline in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this behavior becomes a pass-through.
//
// Span attributes: mediator.request (short name) and mediator.request.type
// (full Go type). On error the span status is set to codes.Error.
func Tracing() mediator.Behavior {
	return TracingWithTracer(otel.Tracer(tracerName))
}

// TracingWithTracer returns tracing behavior using the provided tracer.
func TracingWithTracer(tracer trace.Tracer) mediator.Behavior {
	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		ctx, span := tracer.Start(ctx, "mediator.send",
			trace.WithAttributes(
				attribute.String("mediator.request", RequestName(request)),
				attribute.String("mediator.request.type", reflect.TypeOf(request).String()),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		response, err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return response, err
	}
}
