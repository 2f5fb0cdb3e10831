// Package metrics exposes Prometheus instrumentation for filter runs.
//
// Runs are batch jobs, so instead of serving /metrics the collected values are
// usually dumped once with prometheus.WriteToTextfile for a node exporter
// textfile collector to pick up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wordbloom.lopezb.com/internal/wordbloom/bloom"
	"wordbloom.lopezb.com/internal/wordbloom/score"
	"wordbloom.lopezb.com/internal/wordbloom/timing"
)

const namespace = "wordbloom"

// Metrics holds the collectors of one run.
type Metrics struct {
	ItemsInserted  prometheus.Counter
	Queries        *prometheus.CounterVec
	FalsePositives prometheus.Counter
	FalseNegatives prometheus.Counter
	PhaseDuration  *prometheus.GaugeVec
	FillRatio      prometheus.Gauge
	FilterSetBits  prometheus.Gauge
	FilterBits     prometheus.Gauge
	FilterProbes   prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ItemsInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_inserted_total",
			Help:      "Total number of items passed to the filter for insertion",
		}),
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of scored membership queries by outcome",
		}, []string{"outcome"}),
		FalsePositives: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "false_positives_total",
			Help:      "Queries answered present whose label says absent",
		}),
		FalseNegatives: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "false_negatives_total",
			Help:      "Queries answered absent whose label says present",
		}),
		PhaseDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall-clock duration of each run phase",
		}, []string{"phase"}),
		FillRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_fill_ratio",
			Help:      "Fraction of filter bits set",
		}),
		FilterSetBits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_set_bits",
			Help:      "Number of filter bits set",
		}),
		FilterBits: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_bits",
			Help:      "Length of the filter bit array",
		}),
		FilterProbes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_probes",
			Help:      "Probe positions derived per item",
		}),
	}
}

// ObserveInserted counts n inserted items.
func (m *Metrics) ObserveInserted(n int) {
	m.ItemsInserted.Add(float64(n))
}

// ObserveFilter records the shape and fill of f. The fill is read from one
// snapshot so the set-bit count and the ratio agree.
func (m *Metrics) ObserveFilter(f *bloom.Filter) {
	set := f.Snapshot().Count()

	m.FilterBits.Set(float64(f.Bits()))
	m.FilterProbes.Set(float64(f.Probes()))
	m.FilterSetBits.Set(float64(set))
	m.FillRatio.Set(float64(set) / float64(f.Bits()))
}

// ObserveResult adds the outcome counts of a scored query batch.
func (m *Metrics) ObserveResult(r score.Result) {
	m.Queries.WithLabelValues("correct").Add(float64(r.Correct))
	m.Queries.WithLabelValues("incorrect").Add(float64(r.Incorrect))
	m.FalsePositives.Add(float64(r.FalsePositives))
	m.FalseNegatives.Add(float64(r.FalseNegatives))
}

// ObserveReport sets one duration gauge per recorded phase.
func (m *Metrics) ObserveReport(r *timing.Report) {
	for _, p := range r.Phases() {
		m.PhaseDuration.WithLabelValues(p.Name).Set(p.Duration.Seconds())
	}
}
