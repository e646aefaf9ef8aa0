package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inferprompt_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inferprompt_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	OptimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inferprompt_optimizations_total",
		Help: "Total optimization runs by outcome",
	}, []string{"outcome"})

	SolverDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inferprompt_solver_duration_seconds",
		Help:    "Structure solve duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	})

	SolverFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inferprompt_solver_fallbacks_total",
		Help: "Total solves that degraded to the fallback structure",
	})

	CacheEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inferprompt_cache_events_total",
		Help: "Result cache lookups by result",
	}, []string{"result"})

	FeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inferprompt_feedback_total",
		Help: "Feedback submissions by result",
	}, []string{"result"})
)
