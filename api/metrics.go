package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_api_requests_total",
		Help: "Backend API calls by method and HTTP status",
	}, []string{"method", "status"})

	apiRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_api_request_duration_seconds",
		Help:    "Backend API call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	tokenRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_token_refresh_total",
		Help: "Token refresh outcomes: started|succeeded|failed|reused",
	}, []string{"result"})
)

// Collectors returns the client metrics for registration with a registry
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{apiRequestsTotal, apiRequestDuration, tokenRefreshTotal}
}

func observeRequest(method, status string, start time.Time) {
	apiRequestsTotal.WithLabelValues(method, status).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func observeRefresh(result string) {
	tokenRefreshTotal.WithLabelValues(result).Inc()
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}
