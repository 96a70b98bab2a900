// Package metrics exposes prometheus counters for triple consumption and
// object-count statistics over a finished ontology.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Phase labels for the triples counter.
const (
	PhaseStreaming  = "streaming"
	PhaseResolution = "resolution"
)

// Metrics holds the parse instruments. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	triples       *prometheus.CounterVec // by phase
	warnings      *prometheus.CounterVec // by kind
	unparsed      prometheus.Counter
	parses        prometheus.Counter
	parseDuration prometheus.Histogram
}

// New creates the parse metrics and registers them with registry. A nil
// registry disables metrics and returns nil.
func New(registry prometheus.Registerer) (*Metrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &Metrics{
		triples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "owlrdf",
			Name:      "triples_total",
			Help:      "Triples consumed by a handler, by dispatch phase",
		}, []string{"phase"}),

		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "owlrdf",
			Name:      "warnings_total",
			Help:      "Construct-level warnings, by kind",
		}, []string{"kind"}),

		unparsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "owlrdf",
			Name:      "unparsed_triples_total",
			Help:      "Triples whose predicate has no registered handler",
		}),

		parses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "owlrdf",
			Name:      "parses_total",
			Help:      "Completed parses",
		}),

		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "owlrdf",
			Name:      "parse_duration_seconds",
			Help:      "Wall time of a complete parse",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}

	for _, c := range []prometheus.Collector{m.triples, m.warnings, m.unparsed, m.parses, m.parseDuration} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// TripleConsumed counts one triple consumed in phase.
func (m *Metrics) TripleConsumed(phase string) {
	if m == nil {
		return
	}
	m.triples.WithLabelValues(phase).Inc()
}

// Warning counts one warning of the given kind.
func (m *Metrics) Warning(kind string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(kind).Inc()
}

// Unparsed counts n pass-through triples.
func (m *Metrics) Unparsed(n int) {
	if m == nil || n == 0 {
		return
	}
	m.unparsed.Add(float64(n))
}

// ParseCompleted records a finished parse and its duration.
func (m *Metrics) ParseCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.parses.Inc()
	m.parseDuration.Observe(d.Seconds())
}
