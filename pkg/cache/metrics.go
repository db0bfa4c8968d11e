package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by store
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphql_cache_hits_total",
			Help: "Total number of GraphQL response cache hits",
		},
		[]string{"store"}, // "memory", "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphql_cache_misses_total",
			Help: "Total number of GraphQL response cache misses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphql_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
