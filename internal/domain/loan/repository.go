package loan

import (
	"context"

	"credit-engine/internal/domain/customer"

	"github.com/google/uuid"
)

// OriginationTx is the set of writes an origination performs inside one transaction.
type OriginationTx interface {
	// LockCustomer loads the customer and holds it exclusively until the transaction ends.
	LockCustomer(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error)

	// UpdateAvailableCredit persists cust.AvailableCreditLine if the stored version still
	// equals cust.Version, then advances cust.Version.
	UpdateAvailableCredit(ctx context.Context, cust *customer.Customer) error

	// CreateLoan inserts the loan and all of its installments.
	CreateLoan(ctx context.Context, loan *Loan) error
}

type Repository interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx OriginationTx) error) error

	GetLoanByID(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*Loan, error)

	PortfolioSummary(ctx context.Context) (PortfolioSummary, error)
}
