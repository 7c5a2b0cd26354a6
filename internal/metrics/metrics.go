// Package metrics exposes Prometheus counters for dispatch and cache
// activity. Cache read and write failures are counted separately even
// though both are swallowed, so a caching outage is visible in dashboards.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_calls_total",
		Help: "Tool dispatch calls by tool name and outcome.",
	}, []string{"tool", "outcome"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Dispatches served from the cache store.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Dispatches that required an upstream fetch.",
	})

	CacheReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_read_failures_total",
		Help: "Cache store read errors (treated as misses).",
	})

	CacheWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_write_failures_total",
		Help: "Cache store write errors (logged and ignored).",
	})

	UpstreamFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "upstream_failures_total",
		Help: "Upstream fetches that returned an error or non-2xx status.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
