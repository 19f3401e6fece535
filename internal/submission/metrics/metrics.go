package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the submission workflow. A nil
// *Metrics records nothing.
type Metrics struct {
	transitions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	submissions        *prometheus.CounterVec
}

// New creates and registers the submission metrics on the default registry.
// Call once per process.
func New() *Metrics {
	return &Metrics{
		transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eland_submission_transitions_total",
			Help: "Workflow state transitions, by destination state.",
		}, []string{"to"}),
		validationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eland_submission_validation_failures_total",
			Help: "Credential validation failures, by field.",
		}, []string{"field"}),
		submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eland_submission_submissions_total",
			Help: "Application submissions, by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) ObserveValidationFailure(field string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(field).Inc()
}

func (m *Metrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}
