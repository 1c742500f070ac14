// Package mediator provides in-process request and notification dispatch.
//
// A request goes to exactly one handler, chosen by the request's runtime type,
// through an ordered pipeline of behaviors. A notification goes to every
// handler subscribed to it, sequentially or concurrently. Handlers stay pure
// business logic; logging, validation, retries, tracing and the like live in
// behaviors.
//
// # Quick Start
//
// Define a request, its response and a handler:
//
//	type Ping struct{ Message string }
//	type Pong struct{ Message string }
//
//	type PingHandler struct{}
//
//	func (h *PingHandler) Handle(ctx context.Context, p *Ping) (*Pong, error) {
//	    return &Pong{Message: p.Message + " Pong"}, nil
//	}
//
// Register it in a container, create a mediator and send:
//
//	c := mediator.NewContainer()
//	mediator.Register[*Ping, *Pong](c, &PingHandler{})
//
//	m := mediator.New(c)
//
//	pong, err := mediator.Send[*Pong](ctx, m, &Ping{Message: "Ping"})
//
// # Design Philosophy
//
// The package separates concerns into three layers:
//
//   - Registry: knows which handlers, behaviors and processors exist
//   - Mediator: resolves them for one call, builds the pipeline, runs it
//   - Handlers and behaviors: business logic and cross-cutting logic
//
// The Mediator only reads from a Registry. Container is the in-memory
// implementation populated by explicit registration; any other Registry
// (for example one backed by a dependency-injection container) works as long
// as it returns components in a stable order.
//
// # Requests and Responses
//
// The dispatch key is the request's runtime type, so callers may hold it as
// any. Each request type must have exactly one handler:
//
//   - no handler: ErrHandlerNotFound
//   - more than one handler: ErrAmbiguousHandler
//
// Both are configuration errors; nothing in the pipeline runs. Requests that
// produce nothing are registered with RegisterVoid and respond with Unit.
//
//	mediator.RegisterVoid[*ArchiveUser](c, &ArchiveUserHandler{})
//	err := mediator.Exec(ctx, m, &ArchiveUser{ID: id})
//
// # Pipeline Behaviors
//
// A behavior receives the request and a continuation and returns the response:
//
//	type Behavior func(ctx context.Context, request any, next Next) (any, error)
//
// Behaviors nest in the order the Registry returns them, the first one
// outermost. For behaviors [Outer, Inner] around handler H:
//
//	Outer before → Inner before → H → Inner after → Outer after
//
// AddBehavior takes typed behaviors whose type parameters act as bounds:
//
//	mediator.AddBehavior[*Ping, *Pong](c, pingOnly)  // one request type
//	mediator.AddBehavior[Auditable, any](c, audit)  // requests implementing Auditable
//	mediator.AddBehavior[any, any](c, everything)   // every request
//
// A behavior whose bound a request does not satisfy is left out of that
// request's pipeline without error. AddOpenBehavior and AddBehaviorWhen take
// type-erased behaviors, such as the stock ones in the behavior package.
//
// # Pre- and Post-Processors
//
// Pre-processors run before the handler and may mutate the request.
// Post-processors run after the handler succeeds and see the response. By
// default both sit nearest the handler, inside every behavior:
//
//	Outer → Inner → pre-processors → H → post-processors → Inner → Outer
//
// WithProcessorPlacement(ProcessorsOuter) moves them outside every behavior.
//
// # Notifications
//
// Notifications have zero or more handlers. A handler subscribed to an
// interface receives every notification implementing it:
//
//	mediator.Subscribe[UserCreated](c, &SendWelcomeEmail{})
//	mediator.Subscribe[Event](c, &AuditEveryEvent{})
//
//	err := m.Publish(ctx, UserCreated{ID: id})
//
// Publishing with no subscribers succeeds. The FanOut strategy decides how
// handlers run:
//
//   - Sequential: one at a time in subscription order, stop at the first failure
//   - Concurrent: all at once, wait for all, report every failure in an AggregateError
//   - ConcurrentLimit: like Concurrent with a bound on handlers in flight
//
// # Envelopes
//
// A Decoder turns raw JSON envelopes into typed values using gjson paths, so a
// queue consumer can feed the Mediator without knowing every message type:
//
//	d := mediator.NewDecoder(mediator.Format{
//	    Name:        "simple",
//	    Match:       mediator.HasPaths("type", "payload"),
//	    KeyPath:     "type",
//	    PayloadPath: "payload",
//	})
//	mediator.Bind[*CreateUser](d, "user/create")
//
//	_, err := mediator.SendEnvelope(ctx, m, d, body)
//
// # Hooks
//
// Hooks observe every Send and Publish without coupling to a logging or
// metrics system:
//
//	m := mediator.New(c,
//	    mediator.WithOnSuccess(func(ctx context.Context, key string, d time.Duration) {
//	        metrics.Timing("mediator.success", d, "request:"+key)
//	    }),
//	    mediator.WithOnFailure(func(ctx context.Context, key string, err error, d time.Duration) {
//	        metrics.Incr("mediator.failure", "request:"+key)
//	    }),
//	)
//
// # Error Handling
//
// The Mediator never retries and never swallows errors. Handler and behavior
// errors are returned as they are; retries, fallbacks and logging belong in
// behaviors.
//
// # Thread Safety
//
// Mediator is safe for concurrent use. Each call builds its own pipeline;
// handlers and behaviors are shared and must keep per-call state in their
// arguments. Finish registering before the first Send or Publish.
package mediator
