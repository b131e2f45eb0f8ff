package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the triage service.
type Metrics struct {
	triageCompleted *prometheus.CounterVec
	redFlags        prometheus.Counter
	oracleFailures  *prometheus.CounterVec
}

// New registers the service collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		triageCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthguide",
			Name:      "triage_turns_total",
			Help:      "Completed triage turns by resulting level.",
		}, []string{"triage_level"}),
		redFlags: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "healthguide",
			Name:      "red_flags_total",
			Help:      "Red flag short-circuits.",
		}),
		oracleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthguide",
			Name:      "oracle_failures_total",
			Help:      "Oracle call failures by provider.",
		}, []string{"provider"}),
	}
}

func (m *Metrics) TriageCompleted(level string) {
	if m == nil {
		return
	}
	m.triageCompleted.WithLabelValues(level).Inc()
}

func (m *Metrics) RedFlagDetected() {
	if m == nil {
		return
	}
	m.redFlags.Inc()
}

func (m *Metrics) OracleFailure(provider string) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "default"
	}
	m.oracleFailures.WithLabelValues(provider).Inc()
}
