// Package metrics provides Prometheus metrics for the chatgpt client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chatgpt"

var (
	// authRefreshesTotal is a counter of access-token refresh attempts.
	authRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_refreshes_total",
			Help:      "Total number of access-token refresh attempts",
		},
		[]string{"result"}, // result: cached, fetched, error
	)

	// sendDuration is a histogram of full send-message duration in seconds.
	sendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "send_duration_seconds",
			Help:      "Duration of send-message calls in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"status"}, // status: success, error
	)

	// sendsTotal is a counter of send-message calls.
	sendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sends_total",
			Help:      "Total number of send-message calls",
		},
		[]string{"status"}, // status: success, error
	)

	// streamEventsTotal is a counter of parsed conversation stream events.
	streamEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_total",
			Help:      "Total number of parsed conversation stream events",
		},
	)

	// allMetrics is a list of all metrics for registration.
	allMetrics = []prometheus.Collector{
		authRefreshesTotal,
		sendDuration,
		sendsTotal,
		streamEventsTotal,
	}
)

// RecordAuthRefresh records an access-token refresh attempt.
// Result is one of "cached", "fetched", or "error".
func RecordAuthRefresh(result string) {
	authRefreshesTotal.WithLabelValues(result).Inc()
}

// RecordSend records a completed send-message call.
func RecordSend(status string, durationSeconds float64) {
	sendDuration.WithLabelValues(status).Observe(durationSeconds)
	sendsTotal.WithLabelValues(status).Inc()
}

// RecordStreamEvent records one parsed conversation stream event.
func RecordStreamEvent() {
	streamEventsTotal.Inc()
}
