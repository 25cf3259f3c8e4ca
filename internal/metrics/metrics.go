// Package metrics exposes action counters and request latency as Prometheus
// metrics, fed through domain hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/osl/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the osl metrics and the registry they live in.
type Collector struct {
	registry   *prometheus.Registry
	dispatched *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osl_requests_total",
				Help: "Requests sent to the backend",
			},
			[]string{"action"},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osl_action_outcomes_total",
				Help: "Resolved actions by result kind",
			},
			[]string{"action", "result"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "osl_request_duration_seconds",
				Help:    "Backend round trip duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
	c.registry.MustRegister(c.dispatched, c.outcomes, c.latency)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Hooks returns callbacks recording every dispatch and outcome.
func (c *Collector) Hooks() domain.Hooks {
	return domain.Hooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			c.dispatched.WithLabelValues(e.Action).Inc()
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			result := "ok"
			if e.Kind != "" {
				result = string(e.Kind)
			}
			c.outcomes.WithLabelValues(e.Action, result).Inc()
			if e.Dispatched {
				c.latency.WithLabelValues(e.Action).Observe(e.Duration.Seconds())
			}
		},
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
