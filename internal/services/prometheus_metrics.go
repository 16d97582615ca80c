package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by MetricsRecorderInterface
const (
	MetricTransactionCreated  = "transaction.created"
	MetricTransactionRejected = "transaction.rejected"
	MetricTransactionDuration = "transaction.create"
	MetricImportCompleted     = "import.completed"
	MetricImportFailed        = "import.failed"
	MetricImportDuration      = "import"
	MetricImportRows          = "import.rows"
)

type PrometheusMetrics struct {
	transactionsCreated  *prometheus.CounterVec
	transactionsRejected *prometheus.CounterVec
	transactionDuration  prometheus.Histogram
	importsTotal         *prometheus.CounterVec
	importDuration       prometheus.Histogram
	importRows           prometheus.Histogram
}

// NewPrometheusMetrics registers the ledger metrics with the default registry
func NewPrometheusMetrics() MetricsRecorderInterface {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith registers the ledger metrics with reg
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		transactionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_created_total",
				Help: "Total number of transactions created",
			},
			[]string{"type", "source"},
		),
		transactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_rejected_total",
				Help: "Total number of rejected transaction creations",
			},
			[]string{"reason"},
		),
		transactionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_transaction_create_duration_milliseconds",
				Help:    "Transaction creation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		importsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_imports_total",
				Help: "Total number of CSV imports",
			},
			[]string{"status"},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_import_duration_milliseconds",
				Help:    "CSV import duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		importRows: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_import_rows",
				Help:    "Number of rows per CSV import",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricTransactionCreated:
		source := tags["source"]
		if source == "" {
			source = "api"
		}
		m.transactionsCreated.WithLabelValues(tags["type"], source).Inc()
	case MetricTransactionRejected:
		m.transactionsRejected.WithLabelValues(tags["reason"]).Inc()
	case MetricImportCompleted:
		m.importsTotal.WithLabelValues("success").Inc()
	case MetricImportFailed:
		m.importsTotal.WithLabelValues("failed_" + tags["reason"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricTransactionDuration:
		m.transactionDuration.Observe(float64(duration.Milliseconds()))
	case MetricImportDuration:
		m.importDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricImportRows:
		m.importRows.Observe(value)
	case MetricTransactionCreated:
		m.transactionsCreated.WithLabelValues(tags["type"], tags["source"]).Add(value)
	}
}
