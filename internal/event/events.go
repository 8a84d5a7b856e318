package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoutingKeyCustomerOnboarded = "customer.onboarded"
	RoutingKeyLoanOriginated    = "loan.originated"
)

type CustomerOnboardedEvent struct {
	CustomerID         uuid.UUID       `json:"customerId"`
	AssignedCreditLine decimal.Decimal `json:"assignedCreditLine"`
	Age                int             `json:"age"`
	Timestamp          time.Time       `json:"timestamp"`
}

type InstallmentPayload struct {
	Number               int             `json:"number"`
	Amount               decimal.Decimal `json:"amount"`
	ScheduledPaymentDate string          `json:"scheduledPaymentDate"`
	Status               string          `json:"status"`
}

type LoanOriginatedEvent struct {
	LoanID                   uuid.UUID            `json:"loanId"`
	CustomerID               uuid.UUID            `json:"customerId"`
	Amount                   decimal.Decimal      `json:"amount"`
	InterestRate             decimal.Decimal      `json:"interestRate"`
	Scheme                   string               `json:"scheme"`
	Commission               decimal.Decimal      `json:"commission"`
	TotalAmount              decimal.Decimal      `json:"totalAmount"`
	RemainingAvailableCredit decimal.Decimal      `json:"remainingAvailableCredit"`
	Installments             []InstallmentPayload `json:"installments"`
	Timestamp                time.Time            `json:"timestamp"`
}
