package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for one analyzed simulation configuration.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics collects counters about analysis batches.
type Metrics struct {
	SamplesIngested  *prometheus.CounterVec
	ParseFailures    *prometheus.CounterVec
	GroupsAnalyzed   prometheus.Counter
	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	MatrixSize       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{}

	m.SamplesIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncperf_samples_ingested_total",
			Help: "Total number of timing samples ingested",
		},
		[]string{"mode"},
	)

	m.ParseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncperf_parse_failures_total",
			Help: "Total number of batches rejected because of malformed input",
		},
		[]string{"mode"},
	)

	m.GroupsAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "syncperf_groups_analyzed_total",
			Help: "Total number of run groups described",
		},
	)

	m.Analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncperf_analyses_total",
			Help: "Total number of analyzed simulation configurations",
		},
		[]string{"outcome"},
	)

	m.AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "syncperf_analysis_duration_seconds",
			Help:    "Time spent analyzing one simulation configuration",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
	)

	m.MatrixSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "syncperf_matrix_identities",
			Help: "Number of identities in the last efficiency matrix",
		},
	)

	reg.MustRegister(
		m.SamplesIngested,
		m.ParseFailures,
		m.GroupsAnalyzed,
		m.Analyses,
		m.AnalysisDuration,
		m.MatrixSize,
	)

	return m
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics registered on the default registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// ObserveIngest records a successful ingestion of n samples.
func (m *Metrics) ObserveIngest(mode string, n int) {
	m.SamplesIngested.WithLabelValues(mode).Add(float64(n))
}

// ObserveParseFailure records a rejected batch.
func (m *Metrics) ObserveParseFailure(mode string) {
	m.ParseFailures.WithLabelValues(mode).Inc()
}

// ObserveAnalysis records the outcome and duration of one configuration.
func (m *Metrics) ObserveAnalysis(err error, groups, matrixSize int, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.Analyses.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.GroupsAnalyzed.Add(float64(groups))
	if matrixSize > 0 {
		m.MatrixSize.Set(float64(matrixSize))
	}
}
