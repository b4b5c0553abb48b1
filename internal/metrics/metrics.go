package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request-level instrumentation shared by all adapters. Registered on the
// default registry; callers expose it however they serve metrics.
var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ccxt_requests_total",
		Help: "Outbound exchange requests by exchange and endpoint",
	}, []string{"exchange", "endpoint"})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ccxt_errors_total",
		Help: "Classified exchange errors by exchange and canonical kind",
	}, []string{"exchange", "kind"})

	ThrottleWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ccxt_throttle_wait_seconds",
		Help:    "Time spent waiting on the per-instance rate limiter",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"exchange"})
)
