package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for ops audit tracking. A nil *Metrics
// records nothing.
type Metrics struct {
	Tracked               prometheus.Counter
	Sampled               prometheus.Counter
	Dropped               prometheus.Counter
	CircuitBreakerDropped prometheus.Counter
	PersistFailures       prometheus.Counter
	CircuitBreakerState   prometheus.Gauge
}

// NewMetrics registers the ops audit metrics on reg, or on the default
// registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Tracked: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_ops_tracked_total",
			Help: "Operational audit events persisted",
		}),
		Sampled: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_ops_sampled_total",
			Help: "Operational audit events skipped by sampling",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_ops_dropped_total",
			Help: "Operational audit events dropped because the queue was full",
		}),
		CircuitBreakerDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_ops_circuit_breaker_dropped_total",
			Help: "Operational audit events dropped while the circuit was open",
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_ops_persist_failures_total",
			Help: "Operational audit event persistence failures",
		}),
		CircuitBreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "warden_audit_ops_circuit_breaker_state",
			Help: "Ops audit circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) IncTracked() {
	if m != nil {
		m.Tracked.Inc()
	}
}

func (m *Metrics) IncSampled() {
	if m != nil {
		m.Sampled.Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncCircuitBreakerDropped() {
	if m != nil {
		m.CircuitBreakerDropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) SetCircuitBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}
