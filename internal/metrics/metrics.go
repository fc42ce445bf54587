package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the membership-trust workflow.
type Metrics struct {
	VotesSubmitted       *prometheus.CounterVec
	MembersPromoted      prometheus.Counter
	WarningsSent         prometheus.Counter
	AccountsDisabled     prometheus.Counter
	EnforcementDuration  prometheus.Histogram
	NotificationFailures prometheus.Counter
}

// New registers all collectors against the given registerer. Pass
// prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VotesSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inhouse_verification_votes_total",
			Help: "Total verification votes accepted, by action",
		}, []string{"action"}),
		MembersPromoted: factory.NewCounter(prometheus.CounterOpts{
			Name: "inhouse_members_promoted_total",
			Help: "Total users promoted to verified membership",
		}),
		WarningsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "inhouse_enforcement_warnings_total",
			Help: "Total enforcement warning notifications stamped",
		}),
		AccountsDisabled: factory.NewCounter(prometheus.CounterOpts{
			Name: "inhouse_enforcement_disabled_total",
			Help: "Total accounts disabled for missing membership",
		}),
		EnforcementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "inhouse_enforcement_cycle_duration_seconds",
			Help:    "Duration of one enforcement cycle",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "inhouse_notification_failures_total",
			Help: "Total notification dispatch failures",
		}),
	}
}

// RecordVote records an accepted vote by action.
func (m *Metrics) RecordVote(action string) {
	m.VotesSubmitted.WithLabelValues(action).Inc()
}

// ObserveEnforcementCycle records the duration of a cycle started at start.
func (m *Metrics) ObserveEnforcementCycle(start time.Time) {
	m.EnforcementDuration.Observe(time.Since(start).Seconds())
}
