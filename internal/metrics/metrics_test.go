package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.ObserveRun(RunObservation{Intent: "tool_only", ExtractionSource: "regex", FirstMissing: "category", Duration: 20 * time.Millisecond})
	m.ObserveRun(RunObservation{Intent: "rag_only", QueryRewritten: true, Duration: 5 * time.Millisecond})
	m.ObserveRun(RunObservation{Intent: "tool_only", ExtractionSource: "llm"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("tool_only")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("rag_only")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractionSource.WithLabelValues("regex")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rewrites))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clarifications.WithLabelValues("category")))
}

func TestEventForwarded(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.EventForwarded(nil)
	m.EventForwarded(errors.New("nats down"))
	m.EventForwarded(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsForwarded.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsForwarded.WithLabelValues("error")))
}
