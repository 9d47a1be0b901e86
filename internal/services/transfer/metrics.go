package transfer

import (
	"time"

	"bank/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOutcome(string)                                   {}
func (n *NoopMetricsCollector) RecordDuration(string, time.Duration)                   {}
func (n *NoopMetricsCollector) RecordAmount(models.TransactionStatus, decimal.Decimal) {}

// PrometheusMetrics exports transfer metrics to a Prometheus registry.
type PrometheusMetrics struct {
	transfers *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	amount    *prometheus.CounterVec
}

// NewPrometheusMetrics registers the transfer metrics with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_transfers_total",
			Help: "Transfer submissions by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bank_transfer_duration_seconds",
			Help:    "Time spent handling a transfer submission.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		amount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_transfer_amount_total",
			Help: "Sum of committed transfer amounts by status.",
		}, []string{"status"}),
	}
}

func (m *PrometheusMetrics) RecordOutcome(outcome string) {
	m.transfers.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RecordDuration(outcome string, d time.Duration) {
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordAmount(status models.TransactionStatus, amount decimal.Decimal) {
	m.amount.WithLabelValues(string(status)).Add(amount.InexactFloat64())
}
