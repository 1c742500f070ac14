package mediator

import (
	"context"
	"reflect"
)

// Handler handles exactly one request type and produces its response.
//
// The type parameters are: Req for the request, Resp for the response. The
// request type must be concrete (a struct or pointer type); it is the key the
// Mediator dispatches on.
//
// Example:
//
//	type GetUserHandler struct {
//	    db *sql.DB
//	}
//
//	func (h *GetUserHandler) Handle(ctx context.Context, q *GetUser) (*User, error) {
//	    return loadUser(ctx, h.db, q.ID)
//	}
type Handler[Req, Resp any] interface {
	Handle(ctx context.Context, request Req) (Resp, error)
}

// HandlerFunc is a function adapter for Handler.
//
//	mediator.Register[*Ping, *Pong](c, mediator.HandlerFunc[*Ping, *Pong](func(ctx context.Context, p *Ping) (*Pong, error) {
//	    return &Pong{Message: p.Message + " Pong"}, nil
//	}))
type HandlerFunc[Req, Resp any] func(ctx context.Context, request Req) (Resp, error)

// Handle implements the Handler interface.
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, request Req) (Resp, error) {
	return f(ctx, request)
}

// VoidHandler handles a request that produces no response. The Mediator
// reports Unit as the response of every void request.
type VoidHandler[Req any] interface {
	Handle(ctx context.Context, request Req) error
}

// VoidHandlerFunc is a function adapter for VoidHandler.
type VoidHandlerFunc[Req any] func(ctx context.Context, request Req) error

// Handle implements the VoidHandler interface.
func (f VoidHandlerFunc[Req]) Handle(ctx context.Context, request Req) error {
	return f(ctx, request)
}

// NotificationHandler reacts to a published notification. Any number of
// notification handlers may subscribe to the same notification type.
type NotificationHandler[N any] interface {
	Handle(ctx context.Context, notification N) error
}

// NotificationHandlerFunc is a function adapter for NotificationHandler.
type NotificationHandlerFunc[N any] func(ctx context.Context, notification N) error

// Handle implements the NotificationHandler interface.
func (f NotificationHandlerFunc[N]) Handle(ctx context.Context, notification N) error {
	return f(ctx, notification)
}

// NextFunc invokes the remainder of a typed pipeline.
type NextFunc[Resp any] func(ctx context.Context) (Resp, error)

// PipelineBehavior wraps the handling of matching requests. It decides
// whether and how to call next, and may act on the response or error it
// returns.
//
// Req and Resp act as bounds: the behavior joins the pipeline of every
// request whose type is assignable to Req and whose response type is
// assignable to Resp. Use concrete types for a behavior bound to one request,
// interfaces for a family of requests, and any for all requests.
//
// Example:
//
//	type AuditBehavior struct{ log *slog.Logger }
//
//	func (b *AuditBehavior) Handle(ctx context.Context, req Audited, next mediator.NextFunc[any]) (any, error) {
//	    b.log.Info("audit", "actor", req.Actor())
//	    return next(ctx)
//	}
type PipelineBehavior[Req, Resp any] interface {
	Handle(ctx context.Context, request Req, next NextFunc[Resp]) (Resp, error)
}

// PipelineBehaviorFunc is a function adapter for PipelineBehavior.
type PipelineBehaviorFunc[Req, Resp any] func(ctx context.Context, request Req, next NextFunc[Resp]) (Resp, error)

// Handle implements the PipelineBehavior interface.
func (f PipelineBehaviorFunc[Req, Resp]) Handle(ctx context.Context, request Req, next NextFunc[Resp]) (Resp, error) {
	return f(ctx, request, next)
}

// PreProcessor runs before the handler of matching requests. It may inspect
// or mutate the request; returning an error aborts the call.
type PreProcessor[Req any] interface {
	Process(ctx context.Context, request Req) error
}

// PreProcessorFunc is a function adapter for PreProcessor.
type PreProcessorFunc[Req any] func(ctx context.Context, request Req) error

// Process implements the PreProcessor interface.
func (f PreProcessorFunc[Req]) Process(ctx context.Context, request Req) error {
	return f(ctx, request)
}

// PostProcessor runs after the handler of matching requests succeeds and
// observes both the request and the response.
type PostProcessor[Req, Resp any] interface {
	Process(ctx context.Context, request Req, response Resp) error
}

// PostProcessorFunc is a function adapter for PostProcessor.
type PostProcessorFunc[Req, Resp any] func(ctx context.Context, request Req, response Resp) error

// Process implements the PostProcessor interface.
func (f PostProcessorFunc[Req, Resp]) Process(ctx context.Context, request Req, response Resp) error {
	return f(ctx, request, response)
}

// The type-erased forms below are what a Registry stores and what the
// Mediator composes. Integrators normally only meet Behavior, which is the
// shape of the stock behaviors in the behavior package.

// HandleFunc is the type-erased form of a request handler.
type HandleFunc func(ctx context.Context, request any) (any, error)

// Next invokes the remainder of the pipeline.
type Next func(ctx context.Context) (any, error)

// Behavior is the type-erased form of a pipeline behavior. It receives the
// request, the continuation, and returns the response.
type Behavior func(ctx context.Context, request any, next Next) (any, error)

// PreProcessFunc is the type-erased form of a PreProcessor.
type PreProcessFunc func(ctx context.Context, request any) error

// PostProcessFunc is the type-erased form of a PostProcessor.
type PostProcessFunc func(ctx context.Context, request, response any) error

// NotifyFunc is the type-erased form of a NotificationHandler.
type NotifyFunc func(ctx context.Context, notification any) error

// HandlerEntry binds a request type to its handler and response type.
type HandlerEntry struct {
	RequestType  reflect.Type
	ResponseType reflect.Type
	Handle       HandleFunc
}

// Sender sends a request to its single handler.
type Sender interface {
	Send(ctx context.Context, request any) (any, error)
}

// Publisher publishes a notification to every subscribed handler.
type Publisher interface {
	Publish(ctx context.Context, notification any) error
}
