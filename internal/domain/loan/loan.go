package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	StatusActive    LoanStatus = "ACTIVE"
	StatusLate      LoanStatus = "LATE"
	StatusCompleted LoanStatus = "COMPLETED"
)

type InstallmentStatus string

const (
	InstallmentStatusNext    InstallmentStatus = "NEXT"
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusError   InstallmentStatus = "ERROR"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
)

type Loan struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	Scheme       string
	Commission   decimal.Decimal
	TotalAmount  decimal.Decimal
	Status       LoanStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Installments []Installment
}

type Installment struct {
	ID                   uuid.UUID
	LoanID               uuid.UUID
	Number               int
	Amount               decimal.Decimal
	ScheduledPaymentDate time.Time
	Status               InstallmentStatus
	CreatedAt            time.Time
}

// ScheduledTotal is the sum of all installment amounts. It can fall short of
// TotalAmount by the rounding remainder of the equal split.
func (l *Loan) ScheduledTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range l.Installments {
		sum = sum.Add(inst.Amount)
	}
	return sum
}

// PortfolioSummary aggregates every loan held by the book.
type PortfolioSummary struct {
	Loans              int64
	PrincipalAmount    decimal.Decimal
	CommissionAmount   decimal.Decimal
	TotalAmount        decimal.Decimal
	CustomersWithLoans int64
}
