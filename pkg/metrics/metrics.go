package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citt_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts fine-grained permission evaluations and their
	// outcome (allowed|denied|error) per resource.action pair.
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citt_permission_checks_total",
			Help: "Total number of permission checks",
		},
		[]string{"permission", "result"},
	)

	// AuditWrites counts audit log inserts by outcome (ok|error).
	AuditWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citt_audit_writes_total",
			Help: "Total number of audit log writes",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citt_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
