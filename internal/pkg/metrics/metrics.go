// Package metrics exports Prometheus instruments for order dispatch and the
// engagement job runner. Every recorder is nil-safe, so components built
// without a registry simply skip recording.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes.
const (
	OutcomePlaced                = "placed"
	OutcomeAddressUnresolvable   = "address_unresolvable"
	OutcomeNoRestaurantAvailable = "no_restaurant_available"
	OutcomeInvalidFoodSelection  = "invalid_food_selection"
	OutcomeError                 = "error"
)

// Job outcomes.
const (
	JobCompleted = "completed"
	JobRetried   = "retried"
	JobAbandoned = "abandoned"
)

// DispatchMetrics records PlaceOrder results.
type DispatchMetrics struct {
	orders   *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_orders_total",
		Help: "Order placement attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_duration_seconds",
		Help:    "Duration of order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(orders, duration)
	return &DispatchMetrics{
		orders:   orders,
		duration: duration,
	}
}

// Observe counts one placement attempt and its duration.
func (m *DispatchMetrics) Observe(outcome string, duration time.Duration) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(duration.Seconds())
}

// EngagementJobMetrics records engagement job executions per phase.
type EngagementJobMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	lag      *prometheus.HistogramVec
}

// NewEngagementJobMetrics registers the job metrics on the provided registerer.
func NewEngagementJobMetrics(reg prometheus.Registerer) *EngagementJobMetrics {
	if reg == nil {
		return &EngagementJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engagement_job_duration_seconds",
		Help:    "Duration of engagement phase executions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_jobs_total",
		Help: "Engagement phase executions by outcome.",
	}, []string{"phase", "outcome"})
	lag := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engagement_job_lag_seconds",
		Help:    "Delay between a job becoming due and being claimed.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
	}, []string{"phase"})
	reg.MustRegister(duration, outcomes, lag)
	return &EngagementJobMetrics{
		duration: duration,
		outcomes: outcomes,
		lag:      lag,
	}
}

// ObserveLag records how late a job was picked up.
func (m *EngagementJobMetrics) ObserveLag(phase string, lag time.Duration) {
	if m == nil || m.lag == nil {
		return
	}
	if lag < 0 {
		lag = 0
	}
	m.lag.WithLabelValues(normalizeLabel(phase)).Observe(lag.Seconds())
}

// Observe counts one phase execution with its outcome and duration.
func (m *EngagementJobMetrics) Observe(phase, outcome string, duration time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	phase = normalizeLabel(phase)
	m.duration.WithLabelValues(phase).Observe(duration.Seconds())
	m.outcomes.WithLabelValues(phase, normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
