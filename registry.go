package mediator

import (
	"fmt"
	"reflect"
)

// Registry resolves the components that take part in a dispatch. The
// Mediator treats it strictly as a read interface: how it is populated is up
// to the implementation. Every method must return its results in a stable
// order for a fixed set of registrations.
type Registry interface {
	// Handlers returns every handler bound to the exact request type. The
	// Mediator requires exactly one.
	Handlers(requestType reflect.Type) []HandlerEntry

	// Behaviors returns the behaviors that apply to the request/response pair,
	// outermost first.
	Behaviors(requestType, responseType reflect.Type) []Behavior

	// PreProcessors returns the pre-processors that apply to the request type.
	PreProcessors(requestType reflect.Type) []PreProcessFunc

	// PostProcessors returns the post-processors that apply to the
	// request/response pair.
	PostProcessors(requestType, responseType reflect.Type) []PostProcessFunc

	// NotificationHandlers returns the handlers subscribed to the notification type.
	NotificationHandlers(notificationType reflect.Type) []NotifyFunc
}

// Predicate decides whether a behavior or processor applies to a
// request/response type pair.
type Predicate func(requestType, responseType reflect.Type) bool

// Container is an in-memory Registry populated by explicit registration.
//
// Usage:
//  1. Create a container with NewContainer
//  2. Bind handlers with Register, RegisterVoid and Subscribe
//  3. Add behaviors and processors with AddBehavior, AddPreProcessor, ...
//  4. Pass the container to New
//
// Container is safe for concurrent reads once registration is complete. Do
// not register anything after the first Send or Publish.
type Container struct {
	handlers      map[reflect.Type][]HandlerEntry
	behaviors     []behaviorEntry
	pre           []preEntry
	post          []postEntry
	notifications []notificationEntry
}

type behaviorEntry struct {
	applies  Predicate
	behavior Behavior
}

type preEntry struct {
	applies func(requestType reflect.Type) bool
	process PreProcessFunc
}

type postEntry struct {
	applies Predicate
	process PostProcessFunc
}

type notificationEntry struct {
	applies func(notificationType reflect.Type) bool
	notify  NotifyFunc
}

var _ Registry = (*Container)(nil)

// NewContainer creates an empty Container.
func NewContainer() *Container {
	return &Container{
		handlers: make(map[reflect.Type][]HandlerEntry),
	}
}

// AddHandler binds a type-erased handler. Registering a second handler for
// the same request type is allowed; the Mediator reports it as ambiguous at
// dispatch time.
//
// AddHandler panics if the request type is nil or an interface, since no
// runtime value has an interface as its dynamic type.
func (c *Container) AddHandler(entry HandlerEntry) {
	if entry.RequestType == nil || entry.Handle == nil {
		panic("mediator: handler entry requires a request type and a handle func")
	}
	if entry.RequestType.Kind() == reflect.Interface {
		panic(fmt.Sprintf("mediator: handler request type %s must be concrete", entry.RequestType))
	}
	if entry.ResponseType == nil {
		entry.ResponseType = unitType
	}
	c.handlers[entry.RequestType] = append(c.handlers[entry.RequestType], entry)
}

// Handlers implements Registry.
func (c *Container) Handlers(requestType reflect.Type) []HandlerEntry {
	return c.handlers[requestType]
}

// Behaviors implements Registry. Entries are filtered by their predicate and
// returned in registration order.
func (c *Container) Behaviors(requestType, responseType reflect.Type) []Behavior {
	var out []Behavior
	for _, e := range c.behaviors {
		if e.applies(requestType, responseType) {
			out = append(out, e.behavior)
		}
	}
	return out
}

// PreProcessors implements Registry.
func (c *Container) PreProcessors(requestType reflect.Type) []PreProcessFunc {
	var out []PreProcessFunc
	for _, e := range c.pre {
		if e.applies(requestType) {
			out = append(out, e.process)
		}
	}
	return out
}

// PostProcessors implements Registry.
func (c *Container) PostProcessors(requestType, responseType reflect.Type) []PostProcessFunc {
	var out []PostProcessFunc
	for _, e := range c.post {
		if e.applies(requestType, responseType) {
			out = append(out, e.process)
		}
	}
	return out
}

// NotificationHandlers implements Registry.
func (c *Container) NotificationHandlers(notificationType reflect.Type) []NotifyFunc {
	var out []NotifyFunc
	for _, e := range c.notifications {
		if e.applies(notificationType) {
			out = append(out, e.notify)
		}
	}
	return out
}

// bounded returns a predicate that holds when the request type is assignable
// to reqBound and the response type to respBound.
func bounded(reqBound, respBound reflect.Type) Predicate {
	return func(requestType, responseType reflect.Type) bool {
		return assignable(requestType, reqBound) && assignable(responseType, respBound)
	}
}

func assignable(t, bound reflect.Type) bool {
	return t != nil && t.AssignableTo(bound)
}

var unitType = reflect.TypeFor[Unit]()
