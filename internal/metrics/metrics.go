// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dishlingo_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120},
		},
		[]string{"stage"},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishlingo_gateway_requests_total",
			Help: "Inference calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dishlingo_gateway_request_duration_seconds",
			Help:    "Latency of inference calls, retries included",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60},
		},
		[]string{"operation"},
	)

	// AbsorbedFailures counts errors turned into fallback values instead of
	// being surfaced to the caller.
	AbsorbedFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishlingo_absorbed_failures_total",
			Help: "Failures absorbed by a fallback policy",
		},
		[]string{"policy", "operation"},
	)

	AnalysisOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishlingo_analysis_outcomes_total",
			Help: "Finished analyses by outcome",
		},
		[]string{"outcome"},
	)

	DishesPerAnalysis = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dishlingo_dishes_per_analysis",
			Help:    "Number of dishes returned by a successful analysis",
			Buckets: []float64{1, 5, 10, 20, 30, 50, 75, 100, 150},
		},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dishlingo_http_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
