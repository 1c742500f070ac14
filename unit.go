package mediator

// Unit is the response type of requests that produce no meaningful result.
//
// Void handlers registered with RegisterVoid are normalized to return Unit so
// that they flow through the same pipeline as value-returning handlers. Unit
// has a single value, its zero value, and carries no state.
type Unit struct{}

// String implements fmt.Stringer.
func (Unit) String() string { return "()" }
