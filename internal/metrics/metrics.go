package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "returns_assistant"

// Metrics holds the Prometheus collectors for answered queries.
type Metrics struct {
	queries          *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	extractionSource *prometheus.CounterVec
	rewrites         prometheus.Counter
	clarifications   *prometheus.CounterVec
	eventsForwarded  *prometheus.CounterVec
}

// RunObservation summarises one assistant run.
type RunObservation struct {
	Intent           string
	ExtractionSource string
	QueryRewritten   bool
	FirstMissing     string
	Duration         time.Duration
}

// MustNewMetrics registers the collectors with reg and panics on a
// registration conflict. Tests pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Answered queries by resolved intent.",
		}, []string{"intent"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one graph run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"intent"}),
		extractionSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_source_total",
			Help:      "Parameter extractions by the path that produced them.",
		}, []string{"source"}),
		rewrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_rewrites_total",
			Help:      "Searches answered from the rewritten keyword query.",
		}),
		clarifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clarifications_total",
			Help:      "Clarifying questions asked, by the field asked for.",
		}, []string{"field"}),
		eventsForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_forwarded_total",
			Help:      "Audit events forwarded to the external bus.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.queries, m.runDuration, m.extractionSource, m.rewrites, m.clarifications, m.eventsForwarded)
	return m
}

func (m *Metrics) ObserveRun(o RunObservation) {
	m.queries.WithLabelValues(o.Intent).Inc()
	m.runDuration.WithLabelValues(o.Intent).Observe(o.Duration.Seconds())
	if o.ExtractionSource != "" {
		m.extractionSource.WithLabelValues(o.ExtractionSource).Inc()
	}
	if o.QueryRewritten {
		m.rewrites.Inc()
	}
	if o.FirstMissing != "" {
		m.clarifications.WithLabelValues(o.FirstMissing).Inc()
	}
}

func (m *Metrics) EventForwarded(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.eventsForwarded.WithLabelValues(status).Inc()
}
