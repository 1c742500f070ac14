package mediator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors. Use errors.Is to test for them; the Mediator wraps them in
// the typed errors below to carry the offending type.
var (
	// ErrHandlerNotFound is returned when no handler is bound to the
	// request's runtime type.
	ErrHandlerNotFound = errors.New("mediator: handler not found")

	// ErrAmbiguousHandler is returned when more than one handler is bound to
	// the request's runtime type. The Mediator never picks one.
	ErrAmbiguousHandler = errors.New("mediator: ambiguous handler")

	// ErrNilRequest is returned when Send is called with a nil request.
	ErrNilRequest = errors.New("mediator: nil request")

	// ErrNilNotification is returned when Publish is called with a nil notification.
	ErrNilNotification = errors.New("mediator: nil notification")

	// ErrResponseType is returned when a response cannot be converted to the
	// type the caller asked for.
	ErrResponseType = errors.New("mediator: unexpected response type")

	// ErrHandlerPanic is matched by PanicError.
	ErrHandlerPanic = errors.New("mediator: handler panicked")
)

// ResolveError reports a request type that did not resolve to exactly one
// handler. Err is ErrHandlerNotFound or ErrAmbiguousHandler.
type ResolveError struct {
	RequestType reflect.Type
	Found       int
	Err         error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Found > 1 {
		return fmt.Sprintf("%s: %d handlers registered for %s", e.Err, e.Found, e.RequestType)
	}
	return fmt.Sprintf("%s: no handler registered for %s", e.Err, e.RequestType)
}

// Unwrap returns the sentinel error.
func (e *ResolveError) Unwrap() error { return e.Err }

// AggregateError carries every failure of a concurrent notification fan-out,
// in handler resolution order.
type AggregateError struct {
	NotificationType reflect.Type
	Errors           []error
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mediator: %d of the handlers for %s failed", len(e.Errors), e.NotificationType)
	for _, err := range e.Errors {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the individual failures so errors.Is and errors.As can
// match any of them.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// PanicError wraps a value recovered from a panicking handler or behavior.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrHandlerPanic, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// responseTypeError builds the error returned when a response does not
// convert to the requested type.
func responseTypeError(got any, want reflect.Type) error {
	return fmt.Errorf("%w: got %T, want %s", ErrResponseType, got, want)
}
