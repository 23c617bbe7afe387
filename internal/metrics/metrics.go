// Package metrics holds the process-wide Prometheus collectors and the
// optional /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "ghbrowse"
)

// Cache load results.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultExpired = "expired"
	ResultError   = "error"
)

var (
	// Cache Metrics
	CacheLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_loads_total",
		Help:      "Count of cache loads by result.",
	}, []string{"result"})

	CacheWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_writes_total",
		Help:      "Count of cache writes and deletions.",
	}, []string{"op", "status"})

	// Remote Metrics
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "github_requests_total",
		Help:      "Count of GitHub API requests by endpoint and outcome.",
	}, []string{"endpoint", "status"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "github_request_duration_seconds",
		Help:      "Time taken by GitHub API requests, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	FetchRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "github_request_retries_total",
		Help:      "Count of retried GitHub API requests.",
	}, []string{"endpoint"})

	// Repository Metrics
	RefreshFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_fallbacks_total",
		Help:      "Count of failed forced refreshes answered from the cache.",
	})
)
