// Package metrics exposes the storefront's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the storefront counters. All counters are registered on the
// registry passed to New; handlers increment them through this struct.
type Metrics struct {
	Registry *prometheus.Registry

	SubmissionsTotal  *prometheus.CounterVec
	ProposalsTotal    prometheus.Counter
	DownloadsTotal    *prometheus.CounterVec
	ChatMessages      prometheus.Counter
	ReservationsTotal prometheus.Counter
	SessionsCreated   prometheus.Counter
}

// New creates the metric set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservat",
			Name:      "profile_submissions_total",
			Help:      "Profile submissions by validation result.",
		}, []string{"result"}),
		ProposalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reservat",
			Name:      "proposals_generated_total",
			Help:      "Proposals rendered after a completed simulation.",
		}),
		DownloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservat",
			Name:      "proposal_downloads_total",
			Help:      "Proposal document downloads by format.",
		}, []string{"format"}),
		ChatMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reservat",
			Name:      "chat_messages_total",
			Help:      "Messages handled by the travel assistant.",
		}),
		ReservationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reservat",
			Name:      "reservations_total",
			Help:      "Reservations created at checkout.",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reservat",
			Name:      "intake_sessions_total",
			Help:      "Traveler intake sessions created.",
		}),
	}
}

// Submission result label values.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)
