// Package metrics exposes pipeline counters in Prometheus form.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the keygroup collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	docsIngested    prometheus.Counter
	itemsSkipped    *prometheus.CounterVec
	groupsStored    *prometheus.CounterVec
	selectorRounds  prometheus.Histogram
	fallbackUsed    prometheus.Counter
	rankerSteps     prometheus.Histogram
	coherenceScores *prometheus.GaugeVec
}

// New creates collectors registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		docsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keygroup_docs_ingested_total",
			Help: "documents written to the store",
		}),
		itemsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "keygroup_items_skipped_total",
			Help: "recoverable items logged and skipped, by stage",
		}, []string{"stage"}),
		groupsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "keygroup_groups_stored_total",
			Help: "topic groups persisted, by source",
		}, []string{"source"}),
		selectorRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "keygroup_selector_iterations",
			Help:    "refinement iterations per selection run",
			Buckets: prometheus.LinearBuckets(0, 1, 6),
		}),
		fallbackUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "keygroup_selector_fallback_total",
			Help: "selection runs that sampled words from the fallback",
		}),
		rankerSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "keygroup_ranker_steps",
			Help:    "power iteration steps per ranking run",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		coherenceScores: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "keygroup_coherence_score",
			Help: "latest coherence score per cluster and source",
		}, []string{"cluster", "source"}),
	}
	m.registry.MustRegister(
		m.docsIngested,
		m.itemsSkipped,
		m.groupsStored,
		m.selectorRounds,
		m.fallbackUsed,
		m.rankerSteps,
		m.coherenceScores,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// DocIngested counts one stored document.
func (m *Metrics) DocIngested() {
	if m == nil {
		return
	}
	m.docsIngested.Inc()
}

// Skipped counts n skipped items of a stage.
func (m *Metrics) Skipped(stage string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsSkipped.WithLabelValues(stage).Add(float64(n))
}

// Selection records one selector run.
func (m *Metrics) Selection(iterations int, fallback bool) {
	if m == nil {
		return
	}
	m.selectorRounds.Observe(float64(iterations))
	if fallback {
		m.fallbackUsed.Inc()
	}
}

// Ranking records one ranker run.
func (m *Metrics) Ranking(steps int) {
	if m == nil {
		return
	}
	m.rankerSteps.Observe(float64(steps))
}

// GroupStored records a persisted group and its score.
func (m *Metrics) GroupStored(cluster int, source string, score float64) {
	if m == nil {
		return
	}
	m.groupsStored.WithLabelValues(source).Inc()
	m.coherenceScores.WithLabelValues(strconv.Itoa(cluster), source).Set(score)
}

// WriteFile writes the current values in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
