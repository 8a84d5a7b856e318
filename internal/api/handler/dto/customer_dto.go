package dto

import (
	"strings"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"
)

const DateLayout = "2006-01-02"

type CreateCustomerRequest struct {
	FirstName      string `json:"firstName" example:"Carlos"`
	LastName       string `json:"lastName" example:"Lopez"`
	SecondLastName string `json:"secondLastName" example:"Diaz"`
	DateOfBirth    string `json:"dateOfBirth" example:"2001-05-20"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return apperrors.NewValidationError("firstName", "must not be blank")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return apperrors.NewValidationError("lastName", "must not be blank")
	}
	if strings.TrimSpace(r.SecondLastName) == "" {
		return apperrors.NewValidationError("secondLastName", "must not be blank")
	}
	if strings.TrimSpace(r.DateOfBirth) == "" {
		return apperrors.NewValidationError("dateOfBirth", "must not be null")
	}
	if _, err := time.Parse(DateLayout, r.DateOfBirth); err != nil {
		return apperrors.NewValidationError("dateOfBirth", "must be a date in YYYY-MM-DD format")
	}
	return nil
}

// ToOnboardRequest assumes Validate succeeded.
func (r *CreateCustomerRequest) ToOnboardRequest() customer.OnboardRequest {
	dob, _ := time.Parse(DateLayout, r.DateOfBirth)
	return customer.OnboardRequest{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		SecondLastName: r.SecondLastName,
		DateOfBirth:    dob,
	}
}

type CustomerResponse struct {
	ID                        string    `json:"id"`
	FirstName                 string    `json:"firstName"`
	LastName                  string    `json:"lastName"`
	SecondLastName            string    `json:"secondLastName"`
	DateOfBirth               string    `json:"dateOfBirth"`
	CreditLineAmount          string    `json:"creditLineAmount" example:"3000.00"`
	AvailableCreditLineAmount string    `json:"availableCreditLineAmount" example:"3000.00"`
	CreatedAt                 time.Time `json:"createdAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		ID:                        cust.ID.String(),
		FirstName:                 cust.FirstName,
		LastName:                  cust.LastName,
		SecondLastName:            cust.SecondLastName,
		DateOfBirth:               cust.DateOfBirth.Format(DateLayout),
		CreditLineAmount:          cust.AssignedCreditLine.StringFixed(2),
		AvailableCreditLineAmount: cust.AvailableCreditLine.StringFixed(2),
		CreatedAt:                 cust.CreatedAt,
	}
}
