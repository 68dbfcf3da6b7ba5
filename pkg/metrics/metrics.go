package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}

var (
	// Issuing metrics
	IssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upid_issued_total",
			Help: "Total number of identifiers issued and persisted",
		},
	)

	Collisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upid_collisions_total",
			Help: "Total number of generated identifiers rejected by the unique index",
		},
	)

	DecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upid_decode_errors_total",
			Help: "Total number of malformed identifiers received",
		},
		[]string{"kind"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upid_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"layer"}, // "l1" or "l2"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upid_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"layer"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upid_cache_size",
			Help: "Current number of items in cache",
		},
		[]string{"layer"},
	)

	// Request metrics
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upid_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upid_requests_total",
			Help: "Total number of requests",
		},
		[]string{"method", "route", "status"},
	)

	// Database metrics
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upid_database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"operation"},
	)
)
