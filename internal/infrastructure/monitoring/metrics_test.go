package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBusinessCounters(t *testing.T) {
	beforeOnboarded := testutil.ToFloat64(Business.CustomersOnboardedTotal.WithLabelValues("3000"))
	beforeOriginated := testutil.ToFloat64(Business.LoansOriginatedTotal.WithLabelValues("SCHEME_1"))
	beforeRejected := testutil.ToFloat64(Business.OriginationRejectedTotal.WithLabelValues("insufficient_credit"))

	RecordCustomerOnboarded("3000")
	RecordLoanOriginated("SCHEME_1", 1000, 5*time.Millisecond)
	RecordOriginationRejected("insufficient_credit")

	assert.Equal(t, beforeOnboarded+1, testutil.ToFloat64(Business.CustomersOnboardedTotal.WithLabelValues("3000")))
	assert.Equal(t, beforeOriginated+1, testutil.ToFloat64(Business.LoansOriginatedTotal.WithLabelValues("SCHEME_1")))
	assert.Equal(t, beforeRejected+1, testutil.ToFloat64(Business.OriginationRejectedTotal.WithLabelValues("insufficient_credit")))
}

func TestRecordPortfolioSnapshot(t *testing.T) {
	taken := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	RecordPortfolioSnapshot(PortfolioSnapshot{
		Loans:              4,
		PrincipalAmount:    4000,
		CommissionAmount:   580,
		TotalAmount:        4580,
		CustomersWithLoans: 2,
		TakenAt:            taken,
	})

	assert.Equal(t, float64(4), testutil.ToFloat64(Portfolio.Loans))
	assert.Equal(t, float64(4580), testutil.ToFloat64(Portfolio.TotalAmount))
	assert.Equal(t, float64(2), testutil.ToFloat64(Portfolio.CustomersWithLoans))
	assert.Equal(t, float64(taken.Unix()), testutil.ToFloat64(Portfolio.LastSnapshotSeconds))
}
