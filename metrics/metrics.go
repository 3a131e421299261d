// Package metrics holds the Prometheus collectors for account activity.
// They register with the default registry and are served by promhttp at
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// Mutations counts deposits, withdrawals, schedules and account creations.
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savings_mutations_total",
			Help: "Account mutations by variant, operation and outcome",
		},
		[]string{"variant", "operation", "outcome"},
	)

	// Summaries counts Summarize calls.
	Summaries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savings_summaries_total",
			Help: "Account summaries computed",
		},
		[]string{"variant"},
	)

	// SimulatedDays observes the days stepped by each summary.
	SimulatedDays = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "savings_simulated_days",
			Help:    "Calendar days stepped per summary",
			Buckets: []float64{31, 92, 183, 366, 731, 1827, 3653, 7305},
		},
	)
)

// RecordMutation increments the mutation counter.
func RecordMutation(variant, operation, outcome string) {
	Mutations.WithLabelValues(variant, operation, outcome).Inc()
}

// RecordSummary counts a summary and the days it simulated.
func RecordSummary(variant string, days int) {
	Summaries.WithLabelValues(variant).Inc()
	SimulatedDays.Observe(float64(days))
}
