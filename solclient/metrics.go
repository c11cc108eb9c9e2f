package solclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solbot_rpc_requests_total",
		Help: "Solana RPC requests by method and outcome",
	}, []string{"method", "outcome"})

	rpcLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solbot_rpc_request_duration_seconds",
		Help:    "Solana RPC request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func observeRequest(method string, start time.Time, err error) {

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	rpcRequests.WithLabelValues(method, outcome).Inc()
	rpcLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
