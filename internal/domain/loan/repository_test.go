package loan

import (
	"context"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
	Tx *MockOriginationTx
}

// WithinTx hands the configured MockOriginationTx to fn and returns the
// configured commit error when fn succeeds.
func (_m *MockRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx OriginationTx) error) error {
	ret := _m.Called(ctx)
	if err := fn(ctx, _m.Tx); err != nil {
		return err
	}
	return ret.Error(0)
}

func (_m *MockRepository) GetLoanByID(ctx context.Context, loanID uuid.UUID) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) PortfolioSummary(ctx context.Context) (PortfolioSummary, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(PortfolioSummary), ret.Error(1)
}

type MockOriginationTx struct {
	mock.Mock
}

func (_m *MockOriginationTx) LockCustomer(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *customer.Customer); ok {
		r0 = rf(ctx, customerID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockOriginationTx) UpdateAvailableCredit(ctx context.Context, cust *customer.Customer) error {
	return _m.Called(ctx, cust).Error(0)
}

func (_m *MockOriginationTx) CreateLoan(ctx context.Context, l *Loan) error {
	return _m.Called(ctx, l).Error(0)
}

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) Onboard(ctx context.Context, req customer.OnboardRequest) (*customer.Customer, error) {
	ret := _m.Called(ctx, req)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (_m *MockEventPublisher) PublishCustomerOnboarded(ctx context.Context, evt event.CustomerOnboardedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockEventPublisher) PublishLoanOriginated(ctx context.Context, evt event.LoanOriginatedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}
