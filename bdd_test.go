package mediator_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/bjaus/mediator"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type featurePing struct{ Message string }

type featurePong struct{ Message string }

func (p *featurePing) PingMessage() string { return p.Message }

type featurePinger interface{ PingMessage() string }

type featureZing struct{ Message string }

type featureZong struct{ Message string }

type featureOrphan struct{}

type featurePinged struct{}

type featureMessage interface{ message() string }

func (p *featurePong) message() string { return p.Message }
func (z *featureZong) message() string { return z.Message }

// mediatorScenario holds the state of one scenario.
type mediatorScenario struct {
	mu        sync.Mutex
	ran       []string
	container *mediator.Container
	opts      []mediator.Option
	response  any
	err       error
}

func (s *mediatorScenario) reset() {
	s.ran = nil
	s.container = mediator.NewContainer()
	s.opts = nil
	s.response = nil
	s.err = nil
}

func (s *mediatorScenario) record(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ran = append(s.ran, entry)
}

func (s *mediatorScenario) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ran)
}

func (s *mediatorScenario) wrap(name string) mediator.Behavior {
	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		s.record(name + " before")
		resp, err := next(ctx)
		s.record(name + " after")
		return resp, err
	}
}

func (s *mediatorScenario) aHandlerFor(kind string) error {
	switch kind {
	case "Ping":
		mediator.RegisterFunc(s.container, func(ctx context.Context, p *featurePing) (*featurePong, error) {
			s.record("Handler")
			return &featurePong{Message: p.Message + " Pong"}, nil
		})
	case "Zing":
		mediator.RegisterFunc(s.container, func(ctx context.Context, z *featureZing) (*featureZong, error) {
			s.record("Handler")
			return &featureZong{Message: z.Message + " Zong"}, nil
		})
	default:
		return fmt.Errorf("unknown request kind %q", kind)
	}
	return nil
}

func (s *mediatorScenario) aSecondHandlerForPing() error {
	mediator.RegisterFunc(s.container, func(ctx context.Context, p *featurePing) (*featurePong, error) {
		s.record("Second handler")
		return &featurePong{}, nil
	})
	return nil
}

func (s *mediatorScenario) anOpenBehavior(name string) error {
	mediator.AddOpenBehavior(s.container, s.wrap(name))
	return nil
}

func (s *mediatorScenario) aBehaviorForPing(name string) error {
	wrap := s.wrap(name)
	mediator.AddBehaviorFunc(s.container, func(ctx context.Context, p *featurePing, next mediator.NextFunc[*featurePong]) (*featurePong, error) {
		resp, err := wrap(ctx, p, func(ctx context.Context) (any, error) { return next(ctx) })
		if resp == nil {
			return nil, err
		}
		return resp.(*featurePong), err
	})
	return nil
}

func (s *mediatorScenario) aBehaviorForPingers(name string) error {
	wrap := s.wrap(name)
	mediator.AddBehaviorFunc(s.container, func(ctx context.Context, p featurePinger, next mediator.NextFunc[any]) (any, error) {
		return wrap(ctx, p, mediator.Next(next))
	})
	return nil
}

func (s *mediatorScenario) aPreProcessor(name string) error {
	mediator.AddPreProcessorFunc(s.container, func(ctx context.Context, request any) error {
		s.record(name)
		return nil
	})
	return nil
}

func (s *mediatorScenario) aPostProcessor(name string) error {
	mediator.AddPostProcessorFunc(s.container, func(ctx context.Context, request, response any) error {
		s.record(name)
		return nil
	})
	return nil
}

func (s *mediatorScenario) processorsAreOutside() error {
	s.opts = append(s.opts, mediator.WithProcessorPlacement(mediator.ProcessorsOuter))
	return nil
}

func (s *mediatorScenario) iSend(kind, message string) error {
	var request any
	switch kind {
	case "Ping":
		request = &featurePing{Message: message}
	case "Zing":
		request = &featureZing{Message: message}
	default:
		return fmt.Errorf("unknown request kind %q", kind)
	}
	s.response, s.err = mediator.New(s.container, s.opts...).Send(context.Background(), request)
	return nil
}

func (s *mediatorScenario) iSendAnUnhandledRequest() error {
	s.response, s.err = mediator.New(s.container, s.opts...).Send(context.Background(), &featureOrphan{})
	return nil
}

func (s *mediatorScenario) theResponseMessageIs(want string) error {
	if s.err != nil {
		return fmt.Errorf("send failed: %w", s.err)
	}
	msg, ok := s.response.(featureMessage)
	if !ok {
		return fmt.Errorf("unexpected response %T", s.response)
	}
	if got := msg.message(); got != want {
		return fmt.Errorf("expected response %q, got %q", want, got)
	}
	return nil
}

func (s *mediatorScenario) theExecutionOrderIs(table *godog.Table) error {
	return s.ranInOrder(table)
}

func (s *mediatorScenario) theSendFailsWith(reason string) error {
	sentinels := map[string]error{
		"handler not found": mediator.ErrHandlerNotFound,
		"ambiguous handler": mediator.ErrAmbiguousHandler,
	}
	want, ok := sentinels[reason]
	if !ok {
		return fmt.Errorf("unknown failure %q", reason)
	}
	if !errors.Is(s.err, want) {
		return fmt.Errorf("expected %v, got %v", want, s.err)
	}
	return nil
}

func (s *mediatorScenario) nothingRan() error {
	if ran := s.recorded(); len(ran) > 0 {
		return fmt.Errorf("expected nothing to run, got %v", ran)
	}
	return nil
}

func (s *mediatorScenario) notificationsFanOut(mode string) error {
	switch mode {
	case "sequentially":
		s.opts = append(s.opts, mediator.WithFanOut(mediator.Sequential()))
	case "concurrently":
		s.opts = append(s.opts, mediator.WithFanOut(mediator.Concurrent()))
	default:
		return fmt.Errorf("unknown fan-out %q", mode)
	}
	return nil
}

func (s *mediatorScenario) subscribe(name string, delay time.Duration, err error) {
	mediator.SubscribeFunc(s.container, func(ctx context.Context, n featurePinged) error {
		time.Sleep(delay)
		s.record(name)
		return err
	})
}

func (s *mediatorScenario) aSubscriber(name string) error {
	s.subscribe(name, 0, nil)
	return nil
}

func (s *mediatorScenario) aSlowSubscriber(name string) error {
	s.subscribe(name, 20*time.Millisecond, nil)
	return nil
}

func (s *mediatorScenario) aFailingSubscriber(name, message string) error {
	s.subscribe(name, 0, errors.New(message))
	return nil
}

func (s *mediatorScenario) iPublish() error {
	s.err = mediator.New(s.container, s.opts...).Publish(context.Background(), featurePinged{})
	return nil
}

func (s *mediatorScenario) publishingSucceeds() error {
	if s.err != nil {
		return fmt.Errorf("expected success, got %w", s.err)
	}
	return nil
}

func (s *mediatorScenario) publishingFailsWith(message string) error {
	if s.err == nil || s.err.Error() != message {
		return fmt.Errorf("expected error %q, got %v", message, s.err)
	}
	return nil
}

func (s *mediatorScenario) publishingFailsWithAggregate(table *godog.Table) error {
	var agg *mediator.AggregateError
	if !errors.As(s.err, &agg) {
		return fmt.Errorf("expected an aggregate error, got %v", s.err)
	}
	want := column(table)
	got := make([]string, 0, len(agg.Errors))
	for _, err := range agg.Errors {
		got = append(got, err.Error())
	}
	if !slices.Equal(want, got) {
		return fmt.Errorf("expected failures %v, got %v", want, got)
	}
	return nil
}

func (s *mediatorScenario) noSubscriberRan() error {
	return s.nothingRan()
}

func (s *mediatorScenario) ranInOrder(table *godog.Table) error {
	want, got := column(table), s.recorded()
	if !slices.Equal(want, got) {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	return nil
}

func (s *mediatorScenario) ranInAnyOrder(table *godog.Table) error {
	want, got := column(table), s.recorded()
	slices.Sort(want)
	slices.Sort(got)
	if !slices.Equal(want, got) {
		return fmt.Errorf("expected %v in any order, got %v", want, got)
	}
	return nil
}

func column(table *godog.Table) []string {
	out := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, row.Cells[0].Value)
	}
	return out
}

func InitializeScenario(sc *godog.ScenarioContext) {
	s := &mediatorScenario{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.reset()
		return ctx, nil
	})

	sc.Step(`^a handler for (Ping|Zing) requests$`, s.aHandlerFor)
	sc.Step(`^a second handler for Ping requests$`, s.aSecondHandlerForPing)
	sc.Step(`^an open behavior "([^"]*)"$`, s.anOpenBehavior)
	sc.Step(`^a behavior "([^"]*)" for Ping requests$`, s.aBehaviorForPing)
	sc.Step(`^a behavior "([^"]*)" for requests implementing Pinger$`, s.aBehaviorForPingers)
	sc.Step(`^a pre-processor "([^"]*)"$`, s.aPreProcessor)
	sc.Step(`^a post-processor "([^"]*)"$`, s.aPostProcessor)
	sc.Step(`^processors are placed outside the behaviors$`, s.processorsAreOutside)
	sc.Step(`^I send a (Ping|Zing) request with message "([^"]*)"$`, s.iSend)
	sc.Step(`^I send a request nobody handles$`, s.iSendAnUnhandledRequest)
	sc.Step(`^the response message is "([^"]*)"$`, s.theResponseMessageIs)
	sc.Step(`^the execution order is:$`, s.theExecutionOrderIs)
	sc.Step(`^the send fails with "([^"]*)"$`, s.theSendFailsWith)
	sc.Step(`^nothing ran$`, s.nothingRan)

	sc.Step(`^notifications fan out (sequentially|concurrently)$`, s.notificationsFanOut)
	sc.Step(`^a subscriber "([^"]*)"$`, s.aSubscriber)
	sc.Step(`^a slow subscriber "([^"]*)"$`, s.aSlowSubscriber)
	sc.Step(`^a subscriber "([^"]*)" that fails with "([^"]*)"$`, s.aFailingSubscriber)
	sc.Step(`^I publish a Pinged notification$`, s.iPublish)
	sc.Step(`^publishing succeeds$`, s.publishingSucceeds)
	sc.Step(`^publishing fails with "([^"]*)"$`, s.publishingFailsWith)
	sc.Step(`^publishing fails with an aggregate of:$`, s.publishingFailsWithAggregate)
	sc.Step(`^no subscriber ran$`, s.noSubscriberRan)
	sc.Step(`^the subscribers ran in order:$`, s.ranInOrder)
	sc.Step(`^the subscribers ran in any order:$`, s.ranInAnyOrder)
}
