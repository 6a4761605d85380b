// Package observability holds the Prometheus instrumentation for the
// conversation engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the engine does per turn. A nil *Metrics is valid
// and records nothing, so callers never need to guard instrumentation.
type Metrics struct {
	turns              *prometheus.CounterVec
	collaboratorErrors *prometheus.CounterVec
	ledgerFailures     prometheus.Counter
	turnDuration       prometheus.Histogram
}

// NewMetrics creates and registers the engine metrics. Pass
// prometheus.DefaultRegisterer for the process-wide registry, or a private
// registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calobot_turns_total",
				Help: "Total processed turns, labeled by routed intent.",
			},
			[]string{"intent"},
		),
		collaboratorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calobot_collaborator_errors_total",
				Help: "Failed collaborator calls, labeled by role.",
			},
			[]string{"role"},
		),
		ledgerFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "calobot_ledger_failures_total",
				Help: "Food logs whose calorie write did not commit.",
			},
		),
		turnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "calobot_turn_duration_seconds",
				Help:    "End-to-end turn processing duration.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.turns, m.collaboratorErrors, m.ledgerFailures, m.turnDuration)
	return m
}

// TurnProcessed counts one completed turn for the given intent.
func (m *Metrics) TurnProcessed(intent string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(intent).Inc()
}

// CollaboratorError counts one failed collaborator call. Role is "nlu" or
// "generator".
func (m *Metrics) CollaboratorError(role string) {
	if m == nil {
		return
	}
	m.collaboratorErrors.WithLabelValues(role).Inc()
}

// LedgerFailure counts one food log whose write did not commit.
func (m *Metrics) LedgerFailure() {
	if m == nil {
		return
	}
	m.ledgerFailures.Inc()
}

// ObserveTurnDuration records one turn's processing time in seconds.
func (m *Metrics) ObserveTurnDuration(seconds float64) {
	if m == nil {
		return
	}
	m.turnDuration.Observe(seconds)
}
