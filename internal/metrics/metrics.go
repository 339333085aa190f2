package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "call_auditor"

	jobsTotal          = "jobs_total"
	extractionAttempts = "extraction_attempts_total"
	stageDuration      = "stage_duration_seconds"

	// Labels
	statusLabel   = "status"
	categoryLabel = "category"
	strategyLabel = "strategy"
	outcomeLabel  = "outcome"
	stageLabel    = "stage"
)

var jobsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      jobsTotal,
		Help:      "number of job status transitions by status",
	},
	[]string{statusLabel},
)

var extractionAttemptsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      extractionAttempts,
		Help:      "extraction strategy attempts by category, strategy and outcome",
	},
	[]string{categoryLabel, strategyLabel, outcomeLabel},
)

var stageDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      stageDuration,
		Help:      "time spent in each pipeline stage",
		Buckets:   []float64{0.05, 0.25, 1, 5, 15, 60, 180, 600},
	},
	[]string{stageLabel},
)

func IncreaseJobStatusMetric(status string) {
	jobsTotalMetric.With(prometheus.Labels{statusLabel: status}).Inc()
}

func ObserveExtraction(category, strategy, outcome string) {
	extractionAttemptsMetric.With(prometheus.Labels{
		categoryLabel: category,
		strategyLabel: strategy,
		outcomeLabel:  outcome,
	}).Inc()
}

func ObserveStage(stage string, d time.Duration) {
	stageDurationMetric.With(prometheus.Labels{stageLabel: stage}).Observe(d.Seconds())
}

func init() {
	prometheus.MustRegister(jobsTotalMetric, extractionAttemptsMetric, stageDurationMetric)
}
