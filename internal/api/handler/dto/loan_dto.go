package dto

import (
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	CustomerID string          `json:"customerId" example:"5f1f8f86-9a4e-4a53-9a3c-2b7a1a0d6c11"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
}

// Validate checks the payload and returns the parsed customer ID.
func (r *CreateLoanRequest) Validate() (uuid.UUID, error) {
	if r.CustomerID == "" {
		return uuid.Nil, apperrors.NewValidationError("customerId", "must not be null")
	}
	id, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("customerId", "must be a valid UUID")
	}
	if !r.Amount.IsPositive() {
		return uuid.Nil, apperrors.NewValidationError("amount", "must be greater than zero")
	}
	if !r.Amount.Equal(r.Amount.Truncate(2)) {
		return uuid.Nil, apperrors.NewValidationError("amount", "must have at most two decimal places")
	}
	return id, nil
}

type InstallmentResponse struct {
	Amount               string `json:"amount" example:"226.00"`
	ScheduledPaymentDate string `json:"scheduledPaymentDate" example:"2026-03-16"`
	Status               string `json:"status" example:"PENDING"`
}

type PaymentPlanResponse struct {
	CommissionAmount string                `json:"commissionAmount" example:"130.00"`
	TotalAmount      string                `json:"totalAmount" example:"1130.00"`
	InterestRate     string                `json:"interestRate" example:"0.13"`
	Scheme           string                `json:"scheme" example:"SCHEME_1"`
	Installments     []InstallmentResponse `json:"installments"`
}

type LoanResponse struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customerId"`
	Amount      string              `json:"amount" example:"1000.00"`
	Status      string              `json:"status" example:"ACTIVE"`
	CreatedAt   time.Time           `json:"createdAt"`
	PaymentPlan PaymentPlanResponse `json:"paymentPlan"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	installments := make([]InstallmentResponse, 0, len(l.Installments))
	for _, inst := range l.Installments {
		installments = append(installments, InstallmentResponse{
			Amount:               inst.Amount.StringFixed(2),
			ScheduledPaymentDate: inst.ScheduledPaymentDate.Format(DateLayout),
			Status:               string(inst.Status),
		})
	}

	return LoanResponse{
		ID:         l.ID.String(),
		CustomerID: l.CustomerID.String(),
		Amount:     l.LoanAmount.StringFixed(2),
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
		PaymentPlan: PaymentPlanResponse{
			CommissionAmount: l.Commission.StringFixed(2),
			TotalAmount:      l.TotalAmount.StringFixed(2),
			InterestRate:     l.InterestRate.String(),
			Scheme:           l.Scheme,
			Installments:     installments,
		},
	}
}

func NewLoanListResponse(loans []*loan.Loan) []LoanResponse {
	resp := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, NewLoanResponse(l))
	}
	return resp
}
