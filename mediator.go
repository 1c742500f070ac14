package mediator

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"time"
)

// Mediator sends requests to their single handler through a pipeline of
// behaviors and publishes notifications to every subscribed handler.
//
// Usage:
//  1. Populate a Registry (usually a Container)
//  2. Create a Mediator with New
//  3. Call Send or Publish, or the typed helpers Send, Exec and PublishAll
//
// Mediator holds no per-call state and is safe for concurrent use as long as
// the Registry is no longer being modified.
type Mediator struct {
	registry  Registry
	fanOut    FanOut
	placement ProcessorPlacement
	logger    *slog.Logger
	hooks     hooks
}

// Option configures a Mediator.
type Option func(*Mediator)

// New creates a Mediator that resolves components from registry.
//
// By default notifications fan out sequentially, processors sit nearest the
// handler and nothing is logged.
//
// Example:
//
//	c := mediator.NewContainer()
//	mediator.Register[*GetUser, *User](c, &GetUserHandler{db: db})
//
//	m := mediator.New(c,
//	    mediator.WithLogger(logger),
//	    mediator.WithFanOut(mediator.Concurrent()),
//	)
func New(registry Registry, opts ...Option) *Mediator {
	m := &Mediator{
		registry:  registry,
		fanOut:    Sequential(),
		placement: ProcessorsInner,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithFanOut sets the notification fan-out strategy.
func WithFanOut(f FanOut) Option {
	return func(m *Mediator) {
		m.fanOut = f
	}
}

// WithProcessorPlacement sets where pre- and post-processors sit relative to
// the behaviors.
func WithProcessorPlacement(p ProcessorPlacement) Option {
	return func(m *Mediator) {
		m.placement = p
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mediator) {
		m.logger = l
	}
}

// Send dispatches request to the handler bound to its runtime type and
// returns the handler's response.
//
// The dispatch flow:
//  1. Take the request's runtime type
//  2. Resolve exactly one handler for it
//  3. Resolve pre-processors, behaviors and post-processors
//  4. Fold them around the handler, outermost first
//  5. Invoke the pipeline
//
// Errors raised by the handler or any behavior are returned unchanged. A
// request without a handler fails with ErrHandlerNotFound and one with
// several fails with ErrAmbiguousHandler; in both cases nothing runs. A nil
// ctx never cancels.
func (m *Mediator) Send(ctx context.Context, request any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if request == nil {
		return nil, ErrNilRequest
	}

	requestType := reflect.TypeOf(request)
	key := requestType.String()

	entry, err := m.resolve(requestType)
	if err != nil {
		m.logger.Error("request not dispatched",
			slog.String("request", key),
			slog.String("error", err.Error()),
		)
		m.hooks.resolveError(ctx, key, err)
		return nil, err
	}

	chain := arrange(m.placement,
		m.registry.PreProcessors(requestType),
		m.registry.Behaviors(requestType, entry.ResponseType),
		m.registry.PostProcessors(requestType, entry.ResponseType),
	)
	pipeline := buildPipeline(request, chain, func(ctx context.Context) (any, error) {
		return entry.Handle(ctx, request)
	})

	ctx = m.hooks.dispatch(ctx, key)
	m.logger.Debug("sending request",
		slog.String("request", key),
		slog.String("response", entry.ResponseType.String()),
		slog.Int("behaviors", len(chain)),
	)

	start := time.Now()
	response, err := pipeline(ctx)
	m.hooks.complete(ctx, key, err, time.Since(start))

	return response, err
}

// Publish delivers notification to every handler subscribed to its runtime
// type using the configured FanOut. Publishing with no subscribers succeeds
// and does nothing. A nil ctx never cancels.
func (m *Mediator) Publish(ctx context.Context, notification any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if notification == nil {
		return ErrNilNotification
	}

	notificationType := reflect.TypeOf(notification)
	key := notificationType.String()

	handlers := m.registry.NotificationHandlers(notificationType)
	if len(handlers) == 0 {
		m.logger.Debug("notification has no subscribers", slog.String("notification", key))
		return nil
	}

	ctx = m.hooks.dispatch(ctx, key)
	m.logger.Debug("publishing notification",
		slog.String("notification", key),
		slog.Int("handlers", len(handlers)),
	)

	start := time.Now()
	err := m.fanOut.Publish(ctx, notification, handlers)
	m.hooks.complete(ctx, key, err, time.Since(start))

	return err
}

// resolve returns the single handler bound to requestType.
func (m *Mediator) resolve(requestType reflect.Type) (HandlerEntry, error) {
	entries := m.registry.Handlers(requestType)
	switch len(entries) {
	case 1:
		return entries[0], nil
	case 0:
		return HandlerEntry{}, &ResolveError{RequestType: requestType, Err: ErrHandlerNotFound}
	default:
		return HandlerEntry{}, &ResolveError{RequestType: requestType, Found: len(entries), Err: ErrAmbiguousHandler}
	}
}

// Send dispatches request and converts the response to Resp.
//
// Example:
//
//	pong, err := mediator.Send[*Pong](ctx, m, &Ping{Message: "Ping"})
func Send[Resp any](ctx context.Context, s Sender, request any) (Resp, error) {
	response, err := s.Send(ctx, request)
	if err != nil {
		var zero Resp
		if typed, ok := response.(Resp); ok {
			return typed, err
		}
		return zero, err
	}
	return convert[Resp](response)
}

// Exec dispatches a request whose response is of no interest, typically one
// bound with RegisterVoid.
func Exec(ctx context.Context, s Sender, request any) error {
	_, err := s.Send(ctx, request)
	return err
}

// PublishAll publishes notifications in order and stops at the first one
// that fails.
func PublishAll(ctx context.Context, p Publisher, notifications ...any) error {
	for _, n := range notifications {
		if err := p.Publish(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Sender    = (*Mediator)(nil)
	_ Publisher = (*Mediator)(nil)
)

// IsConfigError reports whether err is a registration problem rather than a
// failure raised while handling.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrHandlerNotFound) || errors.Is(err, ErrAmbiguousHandler)
}
