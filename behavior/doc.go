// Package behavior provides stock pipeline behaviors for the mediator.
// Each behavior wraps the remainder of the pipeline synchronously and can
// observe or alter the call (recover from panics, log, add tracing, retry,
// etc.). Register them with mediator.AddOpenBehavior, or compose several with
// mediator.Chain.
//
// Behaviors nest in registration order, so register the broadest concerns
// first:
//
//	mediator.AddOpenBehavior(c, behavior.Recover(logger))
//	mediator.AddOpenBehavior(c, behavior.Tracing())
//	mediator.AddOpenBehavior(c, behavior.Logging(logger))
//	mediator.AddOpenBehavior(c, behavior.Validation(validator.New()))
package behavior
