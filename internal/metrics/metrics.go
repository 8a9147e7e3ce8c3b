package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"},
	)

	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Public contact form submissions by result",
		},
		[]string{"result"},
	)

	ClockEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clock_events_total",
			Help: "Clock-in and clock-out transitions by action and result",
		},
		[]string{"action", "result"},
	)

	LiveFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lead_feed_clients",
			Help: "Connected live lead feed websocket clients",
		},
	)
)
