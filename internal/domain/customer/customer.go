package customer

import (
	"strings"
	"time"

	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID                  uuid.UUID       `json:"id"`
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	SecondLastName      string          `json:"secondLastName"`
	DateOfBirth         time.Time       `json:"dateOfBirth"`
	AssignedCreditLine  decimal.Decimal `json:"assignedCreditLine"`
	AvailableCreditLine decimal.Decimal `json:"availableCreditLine"`
	Version             int64           `json:"version"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func (c *Customer) FullName() string {
	return strings.Join(strings.Fields(strings.Join([]string{c.FirstName, c.LastName, c.SecondLastName}, " ")), " ")
}

// Debit reserves amount from the available credit line. The line never goes negative.
func (c *Customer) Debit(amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount", "debit amount must be greater than zero")
	}
	if amount.GreaterThan(c.AvailableCreditLine) {
		return apperrors.InsufficientCredit(amount, c.AvailableCreditLine)
	}
	c.AvailableCreditLine = c.AvailableCreditLine.Sub(amount)
	c.UpdatedAt = at
	return nil
}

// Clone returns a copy that shares no mutable state with c.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
