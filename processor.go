package mediator

import "context"

// ProcessorPlacement controls where the pre- and post-processor adapters sit
// relative to the resolved behaviors.
type ProcessorPlacement int

const (
	// ProcessorsInner places processors nearest the handler, inside every
	// behavior. This is the default.
	ProcessorsInner ProcessorPlacement = iota

	// ProcessorsOuter places processors outside every behavior: pre-processors
	// run before the first behavior, post-processors after the last one
	// returns.
	ProcessorsOuter
)

// String implements fmt.Stringer.
func (p ProcessorPlacement) String() string {
	switch p {
	case ProcessorsInner:
		return "inner"
	case ProcessorsOuter:
		return "outer"
	default:
		return "unknown"
	}
}

// preProcessBehavior runs every pre-processor, in order, before the
// continuation. The first failure aborts the call.
func preProcessBehavior(processors []PreProcessFunc) Behavior {
	return func(ctx context.Context, request any, next Next) (any, error) {
		for _, p := range processors {
			if err := p(ctx, request); err != nil {
				return nil, err
			}
		}
		return next(ctx)
	}
}

// postProcessBehavior runs every post-processor, in order, once the
// continuation has succeeded. Post-processors do not run for failed calls.
func postProcessBehavior(processors []PostProcessFunc) Behavior {
	return func(ctx context.Context, request any, next Next) (any, error) {
		response, err := next(ctx)
		if err != nil {
			return response, err
		}
		for _, p := range processors {
			if err := p(ctx, request, response); err != nil {
				return response, err
			}
		}
		return response, nil
	}
}

// arrange concatenates behaviors with the processor adapters according to
// placement. Adapters are only added when they have processors to run.
func arrange(placement ProcessorPlacement, pre []PreProcessFunc, behaviors []Behavior, post []PostProcessFunc) []Behavior {
	var processors []Behavior
	if len(pre) > 0 {
		processors = append(processors, preProcessBehavior(pre))
	}
	if len(post) > 0 {
		processors = append(processors, postProcessBehavior(post))
	}
	if len(processors) == 0 {
		return behaviors
	}

	chain := make([]Behavior, 0, len(behaviors)+len(processors))
	if placement == ProcessorsOuter {
		chain = append(chain, processors...)
		return append(chain, behaviors...)
	}
	chain = append(chain, behaviors...)
	return append(chain, processors...)
}
