// Package metrics provides Prometheus metrics for TimePulse.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timepulse"

var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// FieldEncryptions counts field encryptions by status (success, error).
	FieldEncryptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_encryptions_total",
			Help:      "Total number of sensitive field encryptions",
		},
		[]string{"status"},
	)

	// FieldDecryptions counts field decryptions by the strategy that resolved them.
	// "degraded" means every strategy failed and the stored value was returned.
	FieldDecryptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_decryptions_total",
			Help:      "Total number of sensitive field decryptions by result",
		},
		[]string{"result"},
	)

	// InvoicesGenerated counts invoice generation attempts by outcome.
	InvoicesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_generated_total",
			Help:      "Invoice generation attempts by outcome",
		},
		[]string{"outcome"},
	)

	InvoiceNumberRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_number_retries_total",
			Help:      "Invoice number collisions that triggered a retry",
		},
	)

	// BackfilledFields counts plaintext values encrypted in place, by table.
	BackfilledFields = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfilled_fields_total",
			Help:      "Plaintext values encrypted by the backfill job",
		},
		[]string{"table"},
	)
)
