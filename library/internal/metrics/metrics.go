// Package metrics holds the Prometheus collectors of the library service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BorrowingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrowings_total",
			Help: "Borrowings created and returned",
		},
		[]string{"event"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_payments_total",
			Help: "Payment status transitions by payment type",
		},
		[]string{"type", "status"},
	)

	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_gateway_requests_total",
			Help: "Payment gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_gateway_request_duration_seconds",
			Help:    "Duration of payment gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	OverdueBorrowings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_overdue_borrowings",
			Help: "Active borrowings due by tomorrow at the last overdue check",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_notifications_total",
			Help: "Notifications handed to the sink",
		},
		[]string{"sink", "outcome"},
	)
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
