package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotaDecisions counts limiter outcomes by plan and result (allowed, rejected).
	QuotaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_quota_decisions_total",
			Help: "Daily quota decisions by plan and outcome",
		},
		[]string{"plan", "outcome"},
	)

	// QuotaFailOpen counts requests let through because the counter store failed.
	QuotaFailOpen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vaultline_quota_fail_open_total",
			Help: "Requests admitted without a quota decision because the counter store failed",
		},
	)

	// StoreFaults counts infrastructure faults by component and kind (timeout, unavailable).
	StoreFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_store_faults_total",
			Help: "Backing store faults by component and kind",
		},
		[]string{"component", "kind"},
	)

	// CrossRateResults counts triangulation results by derivation path and outcome.
	CrossRateResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_cross_rate_results_total",
			Help: "Cross rate computations by path and outcome",
		},
		[]string{"path", "outcome"},
	)

	// RateCacheLookups counts read-through cache lookups by tier and result (hit, miss).
	RateCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_rate_cache_lookups_total",
			Help: "Rate cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	// HTTPRequestDuration tracks request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vaultline_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveHTTPRequest records the latency of a finished request.
func ObserveHTTPRequest(method, route string, status int, start time.Time) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
