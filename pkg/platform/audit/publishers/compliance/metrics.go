package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "warden/pkg/platform/audit"
)

// Metrics holds Prometheus metrics for compliance auditing. A nil *Metrics
// records nothing.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

// NewMetrics registers the compliance audit metrics on reg, or on the default
// registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_audit_compliance_events_total",
			Help: "Compliance audit events persisted, by action",
		}, []string{"action"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_audit_compliance_persist_failures_total",
			Help: "Compliance audit events that could not be persisted",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_audit_compliance_persist_duration_seconds",
			Help:    "Time spent persisting a compliance audit event",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25},
		}),
	}
}

func (m *Metrics) IncEventsEmitted(action audit.AuditEvent) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(string(action)).Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(d.Seconds())
}
