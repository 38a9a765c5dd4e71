package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests.",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// Contribution workflow
	ContributionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kontribute_contributions_total",
			Help: "Contribution attempts by outcome.",
		},
		[]string{"outcome"}, // created|existing|rejected
	)
	PaymentsConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kontribute_payments_confirmed_total",
			Help: "Payments confirmed by organizers.",
		},
	)
	CollectionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kontribute_collections_created_total",
			Help: "Collections created.",
		},
	)
	WithdrawalsRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kontribute_withdrawals_requested_total",
			Help: "Withdrawal requests accepted.",
		},
	)
	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kontribute_reminders_total",
			Help: "Reminders handed to the notifier.",
		},
	)

	// Live feed
	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kontribute_ws_connections",
			Help: "Open dashboard websocket connections.",
		},
	)

	registerOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call twice.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			ContributionsTotal,
			PaymentsConfirmed,
			CollectionsCreated,
			WithdrawalsRequested,
			RemindersSent,
			WSConnections,
		)
	})
}
