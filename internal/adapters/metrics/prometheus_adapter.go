package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orza_sync_cache_hits_total",
			Help: "Number of reads served from the cache without a network fetch.",
		},
		[]string{"resource"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orza_sync_cache_misses_total",
			Help: "Number of reads that required a network fetch (miss or stale).",
		},
		[]string{"resource"},
	)

	CoalescedReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orza_sync_coalesced_reads_total",
			Help: "Number of concurrent reads that attached to an in-flight fetch.",
		},
		[]string{"resource"},
	)

	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orza_sync_fetch_failures_total",
			Help: "Number of network fetches that surfaced an error to the caller.",
		},
		[]string{"resource"},
	)

	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orza_sync_mutations_total",
			Help: "Number of mutations executed, labelled by operation and result.",
		},
		[]string{"operation", "result"},
	)

	InvalidatedKeysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orza_sync_invalidated_keys_total",
			Help: "Number of cache entries marked stale by invalidation edges.",
		},
	)

	ActivePollersGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orza_sync_active_pollers",
			Help: "Number of running background pollers (notifications inbox).",
		},
	)
)

// IncrementActivePollers increments the active pollers gauge.
func IncrementActivePollers() {
	ActivePollersGauge.Inc()
}

// DecrementActivePollers decrements the active pollers gauge.
func DecrementActivePollers() {
	ActivePollersGauge.Dec()
}
