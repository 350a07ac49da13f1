// Package metrics exposes leave engine counters to Prometheus.
package metrics

import (
	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// VALIDATION
// =============================================================================

var ValidationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "leave",
	Subsystem: "validation",
	Name:      "decisions_total",
	Help:      "Validated leave applications by decision and reason code.",
}, []string{"decision", "reason", "type"})

var ChargeableDays = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "leave",
	Subsystem: "validation",
	Name:      "chargeable_days",
	Help:      "Chargeable days of accepted applications.",
	Buckets:   []float64{0.5, 1, 2, 3, 5, 10, 15, 30, 90, 182},
}, []string{"bucket"})

// =============================================================================
// LEDGER
// =============================================================================

var LedgerTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "leave",
	Subsystem: "ledger",
	Name:      "transactions_total",
	Help:      "Balance ledger transactions appended, by type and bucket.",
}, []string{"type", "bucket"})

var LedgerDays = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "leave",
	Subsystem: "ledger",
	Name:      "days_total",
	Help:      "Days moved through the balance ledger, by type and bucket.",
}, []string{"type", "bucket"})

// Observer feeds the counters above. Plug it into leave.Service.Observer.
type Observer struct{}

var _ leave.Observer = Observer{}

func (Observer) ObserveDecision(res leave.ValidationResult) {
	reason := string(res.Reason)
	if reason == "" {
		reason = "NONE"
	}
	ValidationDecisions.WithLabelValues(string(res.Decision), reason, string(res.Type)).Inc()
	if res.Accepted() {
		ChargeableDays.WithLabelValues(string(res.Bucket)).Observe(res.ChargeableDays.InexactFloat64())
	}
}

func (Observer) ObserveLedger(op generic.TransactionType, bucket leave.Bucket, days float64) {
	LedgerTransactions.WithLabelValues(string(op), string(bucket)).Inc()
	LedgerDays.WithLabelValues(string(op), string(bucket)).Add(days)
}
