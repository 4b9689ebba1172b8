package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions   *prometheus.CounterVec
	StoreErrors prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_ratelimit_decisions_total",
			Help: "Rate limit checks by key kind and outcome",
		}, []string{"kind", "allowed"}),
		StoreErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_ratelimit_store_errors_total",
			Help: "Rate limit checks that failed open because the store errored",
		}),
	}
}

func (m *Metrics) IncDecision(kind string, allowed bool) {
	if m == nil {
		return
	}
	a := "false"
	if allowed {
		a = "true"
	}
	m.Decisions.WithLabelValues(kind, a).Inc()
}

func (m *Metrics) IncStoreErrors() {
	if m != nil {
		m.StoreErrors.Inc()
	}
}
