package mediator

import "context"

// buildPipeline folds behaviors around terminal, right to left, so that
// behaviors[0] is the outermost wrapper and runs first.
//
// For [Outer, Inner] around H the calls execute as:
//
//	Outer → Inner → H → Inner → Outer
//
// The returned Next closes over request only, so a behavior may invoke its
// continuation more than once.
func buildPipeline(request any, behaviors []Behavior, terminal Next) Next {
	next := terminal
	for i := len(behaviors) - 1; i >= 0; i-- {
		b, inner := behaviors[i], next
		next = func(ctx context.Context) (any, error) {
			return b(ctx, request, inner)
		}
	}
	return next
}

// Chain composes multiple behaviors into a single Behavior. Behaviors are
// applied right-to-left: the first behavior in the list is the outermost
// wrapper.
//
// Example: Chain(recover, logging, timeout) executes as:
//
//	recover → logging → timeout → handler
func Chain(behaviors ...Behavior) Behavior {
	return func(ctx context.Context, request any, next Next) (any, error) {
		return buildPipeline(request, behaviors, next)(ctx)
	}
}
