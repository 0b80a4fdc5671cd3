package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	LoanDecisionsTotal   *prometheus.CounterVec
	RepaymentsTotal      *prometheus.CounterVec
	LedgerPostingsTotal  *prometheus.CounterVec
	OverdueLoansDetected prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "easytap_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		LoanDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytap_loan_decisions_total",
				Help: "Total number of loan lifecycle decisions by action and outcome.",
			},
			[]string{"action", "status"},
		),
		RepaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytap_repayments_total",
				Help: "Total number of repayment attempts by outcome.",
			},
			[]string{"status"},
		),
		LedgerPostingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easytap_ledger_postings_total",
				Help: "Total number of ledger posting attempts by outcome.",
			},
			[]string{"kind", "status"},
		),
		OverdueLoansDetected: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "easytap_overdue_loans_detected",
				Help: "Number of overdue active loans found by the last batch scan.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordLoanDecision(action, status string) {
	Business.LoanDecisionsTotal.WithLabelValues(action, status).Inc()
}

func RecordRepayment(status string) {
	Business.RepaymentsTotal.WithLabelValues(status).Inc()
}

func RecordLedgerPosting(kind, status string) {
	Business.LedgerPostingsTotal.WithLabelValues(kind, status).Inc()
}

func SetOverdueLoansDetected(n int) {
	Business.OverdueLoansDetected.Set(float64(n))
}
