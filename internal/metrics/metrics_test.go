package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(jobsTotalMetric.WithLabelValues("completed"))
	IncreaseJobStatusMetric("completed")
	assert.Equal(t, before+1, testutil.ToFloat64(jobsTotalMetric.WithLabelValues("completed")))

	c := extractionAttemptsMetric.WithLabelValues("pdf", "pdf-text", "failure")
	before = testutil.ToFloat64(c)
	ObserveExtraction("pdf", "pdf-text", "failure")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestObserveStage(t *testing.T) {
	ObserveStage("analysis", 2*time.Second)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(stageDurationMetric), 1)
}
