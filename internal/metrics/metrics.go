package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchOutcomes counts evaluated tuples by outcome kind.
	FetchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fareopt_fetch_outcomes_total",
		Help: "Candidate tuple evaluations by outcome kind",
	}, []string{"kind"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fareopt_cache_hits_total",
		Help: "Tuple lookups served from the result cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fareopt_cache_misses_total",
		Help: "Tuple lookups that went to the fare source",
	})

	Retries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fareopt_fetch_retries_total",
		Help: "Transient failures retried with backoff",
	})

	DeadlineHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fareopt_deadline_exceeded_total",
		Help: "Searches cut short by the overall deadline",
	})
)
