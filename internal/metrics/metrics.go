// Package metrics exposes Prometheus instrumentation for the screening
// pipeline. Collectors are registered on the default registry and served
// through the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationsTotal counts completed evaluations partitioned by the
	// final decision label.
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume_screener",
		Name:      "evaluations_total",
		Help:      "Completed candidate evaluations by final decision.",
	}, []string{"decision"})

	// StageFailures counts pipeline failures partitioned by the stage
	// that produced the error.
	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resume_screener",
		Name:      "stage_failures_total",
		Help:      "Pipeline failures by stage.",
	}, []string{"stage"})

	// PipelineDuration tracks end to end evaluation latency in seconds.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "resume_screener",
		Name:      "pipeline_duration_seconds",
		Help:      "End to end evaluation duration.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// JudgmentParseFallbacks counts qualitative judgments that could not
	// be parsed and were degraded to an unknown label.
	JudgmentParseFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resume_screener",
		Name:      "judgment_parse_fallbacks_total",
		Help:      "Judge responses degraded to an unknown decision.",
	})
)
