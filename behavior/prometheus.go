package behavior

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/mediator"
)

// Collector holds the Prometheus instruments recorded by the Prometheus
// behavior.
type Collector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewCollector creates the request metrics and registers them with reg. A
// nil reg leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mediator",
				Name:      "request_duration_seconds",
				Help:      "Request handling duration distribution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"request", "status"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mediator",
				Name:      "requests_total",
				Help:      "Total number of requests handled by type and status",
			},
			[]string{"request", "status"},
		),
	}

	if reg == nil {
		return c, nil
	}
	for _, m := range []prometheus.Collector{c.duration, c.total} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Record records one request execution.
func (c *Collector) Record(request string, duration time.Duration, err error) {
	s := status(err)
	c.duration.WithLabelValues(request, s).Observe(duration.Seconds())
	c.total.WithLabelValues(request, s).Inc()
}

// Prometheus returns a behavior that records request duration and outcome
// into collector. A nil collector makes the behavior a pass-through.
func Prometheus(collector *Collector) mediator.Behavior {
	return func(ctx context.Context, request any, next mediator.Next) (any, error) {
		if collector == nil {
			return next(ctx)
		}

		start := time.Now()
		response, err := next(ctx)
		collector.Record(RequestName(request), time.Since(start), err)

		return response, err
	}
}
