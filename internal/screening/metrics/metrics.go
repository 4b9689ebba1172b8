package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for screening runs and case changes.
type Metrics struct {
	RunsCreated      prometheus.Counter
	RecordsScreened  *prometheus.CounterVec
	TopScore         prometheus.Histogram
	SearchDuration   prometheus.Histogram
	StateChanges     *prometheus.CounterVec
	DecisionOutcomes *prometheus.CounterVec
}

// New registers the screening metrics on reg, or on the default registry
// when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		RunsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "warden_screening_runs_total",
			Help: "Screening runs persisted",
		}),
		RecordsScreened: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_screening_records_total",
			Help: "Screened records by record status",
		}, []string{"record_status"}),
		TopScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_screening_top_score",
			Help:    "Top match score of records with matches",
			Buckets: []float64{25, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_screening_search_duration_seconds",
			Help:    "Duration of a search including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		StateChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_screening_state_changes_total",
			Help: "Case state changes by history event",
		}, []string{"event"}),
		DecisionOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_screening_decisions_total",
			Help: "Threshold decisions by disposition",
		}, []string{"disposition"}),
	}
}

func (m *Metrics) IncRunsCreated() {
	if m != nil {
		m.RunsCreated.Inc()
	}
}

// ObserveRecord records one screened record.
func (m *Metrics) ObserveRecord(recordStatus string, hasMatches bool, topScore int) {
	if m == nil {
		return
	}
	m.RecordsScreened.WithLabelValues(recordStatus).Inc()
	if hasMatches {
		m.TopScore.Observe(float64(topScore))
	}
}

func (m *Metrics) ObserveSearchDuration(d time.Duration) {
	if m != nil {
		m.SearchDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncStateChange(event string) {
	if m != nil {
		m.StateChanges.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) AddDecisions(disposition string, n int) {
	if m != nil && n > 0 {
		m.DecisionOutcomes.WithLabelValues(disposition).Add(float64(n))
	}
}
