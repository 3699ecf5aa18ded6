// Package oracle provides Prometheus metrics for oracle operations.
package oracle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdviceRequestsTotal tracks oracle advice requests by model and outcome
	AdviceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goal_edge",
			Name:      "oracle_advice_requests_total",
			Help:      "Total number of oracle advice requests",
		},
		[]string{"model", "status"}, // status: success, failure, parse_error
	)

	// AdviceLatency tracks oracle request latency
	AdviceLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "goal_edge",
			Name:      "oracle_advice_latency_seconds",
			Help:      "Oracle advice request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	// AdviceCacheHitRatio tracks advice cache effectiveness
	AdviceCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "goal_edge",
			Name:      "oracle_cache_hit_ratio",
			Help:      "Oracle advice cache hit ratio",
		},
	)

	// FallbacksTotal tracks downgrades to the local scorer
	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "goal_edge",
			Name:      "oracle_fallbacks_total",
			Help:      "Total number of fallbacks to the local deterministic scorer",
		},
	)
)
