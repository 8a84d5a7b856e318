package customer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/event"
	"credit-engine/internal/pkg/apperrors"
	"credit-engine/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow   = time.Date(2026, time.June, 1, 10, 30, 0, 0, time.UTC)
	fixedID    = uuid.MustParse("0b9c8a1e-3c52-4d1a-9a6e-2f4b7c1d8e90")
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func setupTest() (*customer.MockCustomerRepository, *customer.MockEventPublisher, customer.CustomerService) {
	mockRepo := new(customer.MockCustomerRepository)
	mockPub := new(customer.MockEventPublisher)

	service := customer.NewCustomerService(mockRepo, customer.DefaultCreditTierPolicy(), testLogger,
		customer.WithClock(clock.Fixed{At: fixedNow}),
		customer.WithIDGenerator(func() uuid.UUID { return fixedID }),
		customer.WithEventPublisher(mockPub),
	)
	return mockRepo, mockPub, service
}

func validRequest() customer.OnboardRequest {
	return customer.OnboardRequest{
		FirstName:      "  Carlos ",
		LastName:       "Ruiz",
		SecondLastName: "Zafón",
		DateOfBirth:    fixedNow.AddDate(-20, 0, 0),
	}
}

func TestCustomerService_Onboard(t *testing.T) {
	ctx := context.Background()

	t.Run("Success assigns tier line to both balances", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()

		mockRepo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.ID == fixedID &&
				c.FirstName == "Carlos" &&
				c.AssignedCreditLine.Equal(decimal.NewFromInt(3000)) &&
				c.AvailableCreditLine.Equal(decimal.NewFromInt(3000)) &&
				c.CreatedAt.Equal(fixedNow) &&
				c.Version == 0
		})).Return(nil).Once()
		mockPub.On("PublishCustomerOnboarded", ctx, mock.MatchedBy(func(e event.CustomerOnboardedEvent) bool {
			return e.CustomerID == fixedID && e.Age == 20
		})).Return(nil).Once()

		created, err := service.Onboard(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, fixedID, created.ID)
		assert.Equal(t, "Carlos", created.FirstName)
		assert.True(t, decimal.NewFromInt(3000).Equal(created.AvailableCreditLine))
		assert.Equal(t, clock.Date(fixedNow.AddDate(-20, 0, 0)), created.DateOfBirth)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail onboarding", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		mockRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
		mockPub.On("PublishCustomerOnboarded", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		created, err := service.Onboard(ctx, validRequest())

		require.NoError(t, err)
		assert.NotNil(t, created)
	})

	t.Run("Age tiers", func(t *testing.T) {
		tests := []struct {
			name  string
			years int
			line  int64
		}{
			{"eighteen", 18, 3000},
			{"twenty six", 26, 5000},
			{"sixty five", 65, 8000},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockRepo, mockPub, service := setupTest()
				mockRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
				mockPub.On("PublishCustomerOnboarded", ctx, mock.Anything).Return(nil).Once()

				req := validRequest()
				req.DateOfBirth = fixedNow.AddDate(-tt.years, 0, 0)
				created, err := service.Onboard(ctx, req)

				require.NoError(t, err)
				assert.True(t, decimal.NewFromInt(tt.line).Equal(created.AssignedCreditLine))
			})
		}
	})

	t.Run("Under age is rejected without saving", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		req := validRequest()
		req.DateOfBirth = fixedNow.AddDate(-18, 0, 1)

		created, err := service.Onboard(ctx, req)

		assert.Nil(t, created)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidAge))
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		mockPub.AssertNotCalled(t, "PublishCustomerOnboarded", mock.Anything, mock.Anything)
	})

	t.Run("Over age is rejected", func(t *testing.T) {
		_, _, service := setupTest()
		req := validRequest()
		req.DateOfBirth = fixedNow.AddDate(-66, 0, 0)

		_, err := service.Onboard(ctx, req)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidAge))
	})

	t.Run("Validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*customer.OnboardRequest)
			field  string
		}{
			{"blank first name", func(r *customer.OnboardRequest) { r.FirstName = "   " }, "firstName"},
			{"blank last name", func(r *customer.OnboardRequest) { r.LastName = "" }, "lastName"},
			{"blank second last name", func(r *customer.OnboardRequest) { r.SecondLastName = "\t" }, "secondLastName"},
			{"missing birth date", func(r *customer.OnboardRequest) { r.DateOfBirth = time.Time{} }, "dateOfBirth"},
			{"birth date today", func(r *customer.OnboardRequest) { r.DateOfBirth = fixedNow }, "dateOfBirth"},
			{"birth date in future", func(r *customer.OnboardRequest) { r.DateOfBirth = fixedNow.AddDate(0, 0, 3) }, "dateOfBirth"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockRepo, _, service := setupTest()
				req := validRequest()
				tt.mutate(&req)

				_, err := service.Onboard(ctx, req)

				appErr, ok := apperrors.As(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.KindValidation, appErr.Kind)
				assert.Equal(t, tt.field, appErr.Field)
				mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Repository failure propagates", func(t *testing.T) {
		mockRepo, mockPub, service := setupTest()
		dbErr := apperrors.WrapDatabaseError(errors.New("connection reset"), "failed to insert customer")
		mockRepo.On("Save", ctx, mock.Anything).Return(dbErr).Once()

		created, err := service.Onboard(ctx, validRequest())

		assert.Nil(t, created)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		mockPub.AssertNotCalled(t, "PublishCustomerOnboarded", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		expected := &customer.Customer{ID: fixedID, FirstName: "Ana"}
		mockRepo.On("FindByID", ctx, fixedID).Return(expected, nil).Once()

		got, err := service.GetCustomer(ctx, fixedID)

		require.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo, _, service := setupTest()
		mockRepo.On("FindByID", ctx, fixedID).Return(nil, apperrors.CustomerNotFound(fixedID)).Once()

		got, err := service.GetCustomer(ctx, fixedID)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
