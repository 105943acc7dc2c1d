package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_cms_http_requests_total",
			Help: "Number of HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "site_cms_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AuditFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_cms_audit_failures_total",
			Help: "Activity records that could not be written.",
		},
		[]string{"entity"},
	)

	ContactRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_cms_contact_rejected_total",
			Help: "Contact form submissions that were not delivered, by reason.",
		},
		[]string{"reason"},
	)
)
