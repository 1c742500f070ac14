package mediator

import (
	"context"
	"fmt"
	"reflect"
)

// The registration helpers are package-level functions (not methods) due to
// Go generics limitations: methods cannot have type parameters independent
// of the receiver.

// Register binds a handler to its request type.
//
// Example:
//
//	mediator.Register[*GetUser, *User](c, &GetUserHandler{db: db})
//	mediator.Register[*DeleteUser, mediator.Unit](c, &DeleteUserHandler{db: db})
func Register[Req, Resp any](c *Container, h Handler[Req, Resp]) {
	c.AddHandler(HandlerEntry{
		RequestType:  reflect.TypeFor[Req](),
		ResponseType: reflect.TypeFor[Resp](),
		Handle: func(ctx context.Context, request any) (any, error) {
			req, ok := request.(Req)
			if !ok {
				return nil, fmt.Errorf("mediator: handler for %s received %T", reflect.TypeFor[Req](), request)
			}
			return h.Handle(ctx, req)
		},
	})
}

// RegisterFunc is a convenience function for registering a handler function.
//
// Example:
//
//	mediator.RegisterFunc(c, func(ctx context.Context, p *Ping) (*Pong, error) {
//	    return &Pong{}, nil
//	})
func RegisterFunc[Req, Resp any](c *Container, fn func(ctx context.Context, request Req) (Resp, error)) {
	Register[Req, Resp](c, HandlerFunc[Req, Resp](fn))
}

// RegisterVoid binds a handler that produces no response. Its response type
// is Unit.
func RegisterVoid[Req any](c *Container, h VoidHandler[Req]) {
	Register[Req, Unit](c, HandlerFunc[Req, Unit](func(ctx context.Context, request Req) (Unit, error) {
		return Unit{}, h.Handle(ctx, request)
	}))
}

// RegisterVoidFunc is a convenience function for registering a void handler function.
func RegisterVoidFunc[Req any](c *Container, fn func(ctx context.Context, request Req) error) {
	RegisterVoid[Req](c, VoidHandlerFunc[Req](fn))
}

// AddBehavior adds a pipeline behavior. Behaviors run in the order they are
// added: the first one added is the outermost.
//
// Req and Resp bound the requests the behavior joins:
//
//	mediator.AddBehavior[*Ping, *Pong](c, pingOnly)      // exactly Ping → Pong
//	mediator.AddBehavior[Auditable, any](c, audit)      // requests implementing Auditable
//	mediator.AddBehavior[any, any](c, everything)       // all requests
//
// A behavior whose bound is not satisfied is left out of the pipeline.
func AddBehavior[Req, Resp any](c *Container, b PipelineBehavior[Req, Resp]) {
	c.behaviors = append(c.behaviors, behaviorEntry{
		applies:  bounded(reflect.TypeFor[Req](), reflect.TypeFor[Resp]()),
		behavior: eraseBehavior(b),
	})
}

// AddBehaviorFunc is a convenience function for adding a behavior function.
func AddBehaviorFunc[Req, Resp any](c *Container, fn func(ctx context.Context, request Req, next NextFunc[Resp]) (Resp, error)) {
	AddBehavior[Req, Resp](c, PipelineBehaviorFunc[Req, Resp](fn))
}

// AddOpenBehavior adds a type-erased behavior that joins every pipeline.
//
// Example:
//
//	mediator.AddOpenBehavior(c, behavior.Recover(logger))
//	mediator.AddOpenBehavior(c, behavior.Logging(logger))
func AddOpenBehavior(c *Container, b Behavior) {
	AddBehaviorWhen(c, func(reflect.Type, reflect.Type) bool { return true }, b)
}

// AddBehaviorWhen adds a type-erased behavior that joins the pipelines of the
// request/response pairs accepted by applies. The predicate is evaluated on
// every dispatch.
func AddBehaviorWhen(c *Container, applies Predicate, b Behavior) {
	c.behaviors = append(c.behaviors, behaviorEntry{applies: applies, behavior: b})
}

// AddPreProcessor adds a pre-processor for requests assignable to Req.
func AddPreProcessor[Req any](c *Container, p PreProcessor[Req]) {
	bound := reflect.TypeFor[Req]()
	c.pre = append(c.pre, preEntry{
		applies: func(requestType reflect.Type) bool { return assignable(requestType, bound) },
		process: func(ctx context.Context, request any) error {
			req, ok := request.(Req)
			if !ok {
				return fmt.Errorf("mediator: pre-processor for %s received %T", bound, request)
			}
			return p.Process(ctx, req)
		},
	})
}

// AddPreProcessorFunc is a convenience function for adding a pre-processor function.
func AddPreProcessorFunc[Req any](c *Container, fn func(ctx context.Context, request Req) error) {
	AddPreProcessor[Req](c, PreProcessorFunc[Req](fn))
}

// AddPostProcessor adds a post-processor for requests assignable to Req
// whose response type is assignable to Resp.
func AddPostProcessor[Req, Resp any](c *Container, p PostProcessor[Req, Resp]) {
	reqBound, respBound := reflect.TypeFor[Req](), reflect.TypeFor[Resp]()
	c.post = append(c.post, postEntry{
		applies: bounded(reqBound, respBound),
		process: func(ctx context.Context, request, response any) error {
			req, ok := request.(Req)
			if !ok {
				return fmt.Errorf("mediator: post-processor for %s received %T", reqBound, request)
			}
			resp, err := convert[Resp](response)
			if err != nil {
				return err
			}
			return p.Process(ctx, req, resp)
		},
	})
}

// AddPostProcessorFunc is a convenience function for adding a post-processor function.
func AddPostProcessorFunc[Req, Resp any](c *Container, fn func(ctx context.Context, request Req, response Resp) error) {
	AddPostProcessor[Req, Resp](c, PostProcessorFunc[Req, Resp](fn))
}

// Subscribe adds a notification handler. It receives every published
// notification whose type is assignable to N, so a handler for an interface
// hears all notifications implementing it. Handlers are called in
// subscription order.
//
// Example:
//
//	mediator.Subscribe[UserCreated](c, &SendWelcomeEmail{mailer})
//	mediator.Subscribe[UserCreated](c, &ProvisionWorkspace{store})
func Subscribe[N any](c *Container, h NotificationHandler[N]) {
	bound := reflect.TypeFor[N]()
	c.notifications = append(c.notifications, notificationEntry{
		applies: func(notificationType reflect.Type) bool { return assignable(notificationType, bound) },
		notify: func(ctx context.Context, notification any) error {
			n, ok := notification.(N)
			if !ok {
				return fmt.Errorf("mediator: notification handler for %s received %T", bound, notification)
			}
			return h.Handle(ctx, n)
		},
	})
}

// SubscribeFunc is a convenience function for subscribing a handler function.
func SubscribeFunc[N any](c *Container, fn func(ctx context.Context, notification N) error) {
	Subscribe[N](c, NotificationHandlerFunc[N](fn))
}

// eraseBehavior adapts a typed behavior to the Behavior shape.
func eraseBehavior[Req, Resp any](b PipelineBehavior[Req, Resp]) Behavior {
	return func(ctx context.Context, request any, next Next) (any, error) {
		req, ok := request.(Req)
		if !ok {
			return nil, fmt.Errorf("mediator: behavior for %s received %T", reflect.TypeFor[Req](), request)
		}
		return b.Handle(ctx, req, func(ctx context.Context) (Resp, error) {
			resp, err := next(ctx)
			if err != nil {
				var zero Resp
				if typed, ok := resp.(Resp); ok {
					return typed, err
				}
				return zero, err
			}
			return convert[Resp](resp)
		})
	}
}

// convert asserts v to T. A nil v converts to the zero T.
func convert[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, responseTypeError(v, reflect.TypeFor[T]())
	}
	return t, nil
}
