// Package metrics exposes Prometheus collectors for Logic Explorer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Collector holds all Prometheus metrics for the application. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	BackendRequests *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	Actions         *prometheus.CounterVec
	LiveSessions    prometheus.Gauge
	ChartsCreated   prometheus.Counter
	ViewPushes      prometheus.Counter
}

// NewCollector creates a collector with its own registry so that several
// instances can coexist in tests.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		BackendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Requests sent to the analysis backend",
			},
			[]string{"endpoint", "outcome"},
		),
		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Analysis backend round-trip time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "explorer_actions_total",
				Help:      "Explorer actions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		LiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "live_sessions",
				Help:      "Sessions currently held in memory",
			},
		),
		ChartsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "charts_created_total",
				Help:      "Waveform charts created",
			},
		),
		ViewPushes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_pushes_total",
				Help:      "View models pushed over websockets",
			},
		),
	}

	registry.MustRegister(
		c.BackendRequests,
		c.BackendDuration,
		c.Actions,
		c.LiveSessions,
		c.ChartsCreated,
		c.ViewPushes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveBackend records one backend round trip.
func (c *Collector) ObserveBackend(endpoint, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.BackendRequests.WithLabelValues(endpoint, outcome).Inc()
	c.BackendDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// CountAction records one explorer action.
func (c *Collector) CountAction(kind, outcome string) {
	if c == nil {
		return
	}
	c.Actions.WithLabelValues(kind, outcome).Inc()
}

// SetLiveSessions updates the live session gauge.
func (c *Collector) SetLiveSessions(n int) {
	if c == nil {
		return
	}
	c.LiveSessions.Set(float64(n))
}

// ChartCreated counts one chart instance.
func (c *Collector) ChartCreated() {
	if c == nil {
		return
	}
	c.ChartsCreated.Inc()
}

// ViewPushed counts one websocket view push.
func (c *Collector) ViewPushed() {
	if c == nil {
		return
	}
	c.ViewPushes.Inc()
}
