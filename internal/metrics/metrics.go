package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webclient_api_requests_total",
			Help: "Total number of calls made to the remote API",
		},
		[]string{"operation", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webclient_api_request_duration_seconds",
			Help:    "Latency of calls made to the remote API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	staleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webclient_stale_responses_total",
			Help: "API responses dropped because their view was re-activated or left",
		},
		[]string{"view"},
	)

	viewActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webclient_view_actions_total",
			Help: "User actions handled by the views",
		},
		[]string{"view", "action", "result"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webclient_active_sessions",
			Help: "Number of UI sessions held in memory",
		},
	)
)

// RecordAPIRequest records one API call. status is the HTTP status code, or 0
// when the request never got a response.
func RecordAPIRequest(operation string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status/100) + "xx"
	}
	apiRequestsTotal.WithLabelValues(operation, label).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordStaleResponse(view string) {
	staleResponses.WithLabelValues(view).Inc()
}

// RecordAction counts a view action; ok=false means it was logged and dropped.
func RecordAction(view, action string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	viewActions.WithLabelValues(view, action, result).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
