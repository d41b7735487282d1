package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics, observed by every repository query.
var DBQueryDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "db_query_duration_seconds",
	Help:    "Duration of database queries in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"query_type", "repository", "status"})

var DBQueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "db_query_errors_total",
	Help: "Total number of failed database queries.",
}, []string{"query_type", "repository"})

// AI metrics, observed by the LLM service.
var AIRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ai_request_duration_seconds",
	Help:    "Duration of language-model requests in seconds.",
	Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
}, []string{"provider", "kind"})

var AIRequestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ai_request_errors_total",
	Help: "Total number of failed language-model requests.",
}, []string{"provider", "code"})
