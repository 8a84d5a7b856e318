package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersOnboardedTotal  *prometheus.CounterVec
	OnboardingRejectedTotal  *prometheus.CounterVec
	LoansOriginatedTotal     *prometheus.CounterVec
	OriginationRejectedTotal *prometheus.CounterVec
	OriginatedPrincipalTotal prometheus.Counter
	OriginationDuration      prometheus.Histogram
}

type PortfolioMetrics struct {
	Loans               prometheus.Gauge
	PrincipalAmount     prometheus.Gauge
	CommissionAmount    prometheus.Gauge
	TotalAmount         prometheus.Gauge
	CustomersWithLoans  prometheus.Gauge
	LastSnapshotSeconds prometheus.Gauge
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersOnboardedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_customers_onboarded_total",
				Help: "Customers successfully onboarded, by assigned credit line.",
			},
			[]string{"credit_line"},
		),
		OnboardingRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_customer_onboarding_rejected_total",
				Help: "Customer onboarding attempts rejected, by error kind.",
			},
			[]string{"reason"},
		),
		LoansOriginatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_loans_originated_total",
				Help: "Loans successfully originated, by interest scheme.",
			},
			[]string{"scheme"},
		),
		OriginationRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_loan_origination_rejected_total",
				Help: "Loan origination attempts rejected, by error kind.",
			},
			[]string{"reason"},
		),
		OriginatedPrincipalTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_originated_principal_total",
				Help: "Sum of principal amounts of originated loans.",
			},
		),
		OriginationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "credit_engine_loan_origination_duration_seconds",
				Help:    "Latency of the loan origination unit of work.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	Portfolio = PortfolioMetrics{
		Loans: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_loans",
			Help: "Number of loans in the portfolio at the last snapshot.",
		}),
		PrincipalAmount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_principal_amount",
			Help: "Sum of loan principal at the last snapshot.",
		}),
		CommissionAmount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_commission_amount",
			Help: "Sum of commissions at the last snapshot.",
		}),
		TotalAmount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_total_amount",
			Help: "Sum of loan totals (principal plus commission) at the last snapshot.",
		}),
		CustomersWithLoans: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_customers_with_loans",
			Help: "Distinct customers holding at least one loan at the last snapshot.",
		}),
		LastSnapshotSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_last_snapshot_timestamp_seconds",
			Help: "Unix time of the last successful portfolio snapshot.",
		}),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerOnboarded(creditLine string) {
	Business.CustomersOnboardedTotal.WithLabelValues(creditLine).Inc()
}

func RecordOnboardingRejected(reason string) {
	Business.OnboardingRejectedTotal.WithLabelValues(reason).Inc()
}

func RecordLoanOriginated(scheme string, principal float64, duration time.Duration) {
	Business.LoansOriginatedTotal.WithLabelValues(scheme).Inc()
	Business.OriginatedPrincipalTotal.Add(principal)
	Business.OriginationDuration.Observe(duration.Seconds())
}

func RecordOriginationRejected(reason string) {
	Business.OriginationRejectedTotal.WithLabelValues(reason).Inc()
}

type PortfolioSnapshot struct {
	Loans              int64
	PrincipalAmount    float64
	CommissionAmount   float64
	TotalAmount        float64
	CustomersWithLoans int64
	TakenAt            time.Time
}

func RecordPortfolioSnapshot(s PortfolioSnapshot) {
	Portfolio.Loans.Set(float64(s.Loans))
	Portfolio.PrincipalAmount.Set(s.PrincipalAmount)
	Portfolio.CommissionAmount.Set(s.CommissionAmount)
	Portfolio.TotalAmount.Set(s.TotalAmount)
	Portfolio.CustomersWithLoans.Set(float64(s.CustomersWithLoans))
	Portfolio.LastSnapshotSeconds.Set(float64(s.TakenAt.Unix()))
}
