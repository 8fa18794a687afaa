package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Metrics groups the collectors exported by the transport editor.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessions    *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	submissions *prometheus.CounterVec
	resources   prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport_editor",
			Name:      "sessions_opened_total",
			Help:      "Editor sessions opened, by load outcome.",
		}, []string{"outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport_editor",
			Name:      "address_resolutions_total",
			Help:      "Address resolutions, by outcome.",
		}, []string{"outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport_editor",
			Name:      "submissions_total",
			Help:      "Registry writes, by outcome.",
		}, []string{"outcome"}),
		resources: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transport_editor",
			Name:      "submission_resource_used",
			Help:      "Resource units consumed by successful registry writes.",
			Buckets:   prometheus.ExponentialBuckets(25000, 2, 8),
		}),
	}
	reg.MustRegister(m.sessions, m.resolutions, m.submissions, m.resources)
	return m
}

// SessionOpened records a load outcome
func (m *Metrics) SessionOpened(outcome string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(outcome).Inc()
}

// Resolution records an address resolution outcome
func (m *Metrics) Resolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

// Submission records a registry write outcome
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ResourceUsed records the resource units consumed by a write
func (m *Metrics) ResourceUsed(units uint64) {
	if m == nil {
		return
	}
	m.resources.Observe(float64(units))
}
