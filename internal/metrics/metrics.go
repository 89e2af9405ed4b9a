// Package metrics instruments searches and settlements with prometheus
// collectors on a private registry. The settler is a batch job, so the
// registry is written to a node-exporter textfile rather than scraped.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "settler"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry       *prometheus.Registry
	searches       *prometheus.CounterVec
	combinations   *prometheus.CounterVec
	evaluated      *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	settled        prometheus.Counter
	commits        *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches run, by strategy and completion status.",
		}, []string{"strategy", "status"}),
		combinations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combinations_found_total",
			Help:      "Qualifying combinations found, by strategy.",
		}, []string{"strategy"}),
		evaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Subsets or candidate visits evaluated, by strategy.",
		}, []string{"strategy"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of a single pair search.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"strategy"}),
		settled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_settled_total",
			Help:      "Transactions moved from pending to settled.",
		}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Settlement commits, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.searches, m.combinations, m.evaluated, m.searchDuration, m.settled, m.commits)
	return m
}

// ObserveSearch records one finished pair search.
func (m *Metrics) ObserveSearch(strategy, status string, found, evaluated int, elapsed time.Duration) {
	m.searches.WithLabelValues(strategy, status).Inc()
	m.combinations.WithLabelValues(strategy).Add(float64(found))
	m.evaluated.WithLabelValues(strategy).Add(float64(evaluated))
	m.searchDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveCommit records one commit attempt and the transactions it settled.
func (m *Metrics) ObserveCommit(settled int, err error) {
	if err != nil {
		m.commits.WithLabelValues("error").Inc()
		return
	}
	m.commits.WithLabelValues("ok").Inc()
	m.settled.Add(float64(settled))
}

// Registry exposes the underlying registry as a gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
