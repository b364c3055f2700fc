// Package metrics holds the Prometheus instruments of the service. All
// collectors are registered with the default registry; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ComposerActions counts save/publish/load/delete attempts by result
	// (ok, invalid, unauthenticated, busy, store_error, ...).
	ComposerActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "composer_actions_total",
			Help: "Composer actions by action and result.",
		}, []string{"action", "result"})

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Notifications written, by type.",
		}, []string{"type"})

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "composer_sessions_opened",
			Help: "Composer sessions opened minus sessions discarded since start.",
		})

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(
		ComposerActions,
		NotificationsSent,
		ActiveSessions,
		HTTPDuration,
	)
}
