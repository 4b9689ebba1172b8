package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish outcomes.
const (
	PublishOK      = "ok"
	PublishFailed  = "failed"
	PublishSkipped = "skipped"
)

// Metrics covers webhook emission, sink delivery and verification.
type Metrics struct {
	Emitted       *prometheus.CounterVec
	Published     *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	SinkOpen      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Emitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_webhook_emitted_total",
			Help: "Signed webhook events by payload event type",
		}, []string{"event_type"}),
		Published: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_webhook_published_total",
			Help: "Webhook sink deliveries by outcome",
		}, []string{"outcome"}),
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_webhook_verifications_total",
			Help: "Webhook verifications by result and failure reason",
		}, []string{"valid", "reason"}),
		SinkOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "warden_webhook_sink_circuit_open",
			Help: "1 while the webhook sink circuit is open",
		}),
	}
}

func (m *Metrics) IncEmitted(eventType string) {
	if m != nil {
		m.Emitted.WithLabelValues(eventType).Inc()
	}
}

func (m *Metrics) IncPublished(outcome string) {
	if m != nil {
		m.Published.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncVerification(valid bool, reason string) {
	if m == nil {
		return
	}
	v := "false"
	if valid {
		v = "true"
	}
	m.Verifications.WithLabelValues(v, reason).Inc()
}

func (m *Metrics) SetSinkOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.SinkOpen.Set(1)
		return
	}
	m.SinkOpen.Set(0)
}
