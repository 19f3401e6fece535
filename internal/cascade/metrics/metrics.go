package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the cascade explorer. A nil
// *Metrics is valid and records nothing, which keeps tests free of global
// registry collisions.
type Metrics struct {
	fetches      *prometheus.CounterVec
	fetchErrors  *prometheus.CounterVec
	staleDropped prometheus.Counter
	searches     *prometheus.CounterVec
}

// New creates and registers the cascade metrics on the default registry.
// Call once per process.
func New() *Metrics {
	return &Metrics{
		fetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eland_cascade_fetches_total",
			Help: "Dependent list fetches issued by the cascade resolver, by target.",
		}, []string{"target"}),
		fetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eland_cascade_fetch_failures_total",
			Help: "Dependent list fetches that failed, by target.",
		}, []string{"target"}),
		staleDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eland_cascade_stale_responses_dropped_total",
			Help: "Fetch responses discarded because the selection moved on.",
		}),
		searches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eland_cascade_searches_total",
			Help: "Leaf searches, by outcome (exact, fallback, none).",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveFetch(target string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(target).Inc()
}

func (m *Metrics) ObserveFetchFailure(target string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(target).Inc()
}

func (m *Metrics) ObserveStaleDrop() {
	if m == nil {
		return
	}
	m.staleDropped.Inc()
}

func (m *Metrics) ObserveSearch(outcome string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
}
