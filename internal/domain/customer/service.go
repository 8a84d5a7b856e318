package customer

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
	"credit-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

const inputValidationPassed = "Input validation passed"

type OnboardRequest struct {
	FirstName      string
	LastName       string
	SecondLastName string
	DateOfBirth    time.Time
}

type CustomerService interface {
	Onboard(ctx context.Context, req OnboardRequest) (*Customer, error)
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	policy CreditTierPolicy
	pub    event.EventPublisher
	clock  clock.Clock
	newID  func() uuid.UUID
	logger *slog.Logger
}

type Option func(*customerService)

func WithClock(c clock.Clock) Option {
	return func(s *customerService) { s.clock = c }
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *customerService) { s.newID = gen }
}

func WithEventPublisher(pub event.EventPublisher) Option {
	return func(s *customerService) { s.pub = pub }
}

func NewCustomerService(repo CustomerRepository, policy CreditTierPolicy, logger *slog.Logger, opts ...Option) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	s := &customerService{
		repo:   repo,
		policy: policy,
		pub:    event.NoopPublisher{},
		clock:  clock.System{},
		newID:  uuid.New,
		logger: logger.With(slog.String("component", "customerService")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *customerService) Onboard(ctx context.Context, req OnboardRequest) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to onboard new customer")

	now := s.clock.Now()
	req, err := validateOnboardRequest(req, now)
	if err != nil {
		s.logger.WarnContext(ctx, "Onboarding request failed validation", slog.Any("error", err))
		monitoring.RecordOnboardingRejected(apperrors.KindOf(err).String())
		return nil, err
	}
	s.logger.DebugContext(ctx, inputValidationPassed)

	age := AgeAt(req.DateOfBirth, now)
	creditLine, err := s.policy.AssignCreditLine(age)
	if err != nil {
		s.logger.WarnContext(ctx, "Customer age outside accepted range", slog.Int("age", age))
		monitoring.RecordOnboardingRejected(apperrors.KindOf(err).String())
		return nil, err
	}

	cust := &Customer{
		ID:                  s.newID(),
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		SecondLastName:      req.SecondLastName,
		DateOfBirth:         req.DateOfBirth,
		AssignedCreditLine:  creditLine,
		AvailableCreditLine: creditLine,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	logCtx := s.logger.With(slog.String("customerID", cust.ID.String()))
	if err := s.repo.Save(ctx, cust); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, err
	}

	logCtx.InfoContext(ctx, "Customer onboarded", slog.Int("age", age), slog.String("creditLine", creditLine.StringFixed(2)))
	monitoring.RecordCustomerOnboarded(creditLine.StringFixed(2))
	s.publishOnboarded(ctx, cust, age)

	return cust, nil
}

func (s *customerService) publishOnboarded(ctx context.Context, cust *Customer, age int) {
	evt := event.CustomerOnboardedEvent{
		CustomerID:         cust.ID,
		AssignedCreditLine: cust.AssignedCreditLine,
		Age:                age,
		Timestamp:          cust.CreatedAt,
	}
	if err := s.pub.PublishCustomerOnboarded(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer onboarded event", slog.Any("error", err))
	}
}

func (s *customerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*Customer, error) {
	logCtx := s.logger.With(slog.String("customerID", customerID.String()))
	logCtx.DebugContext(ctx, "Fetching customer")

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		logCtx.WarnContext(ctx, "Failed to fetch customer", slog.Any("error", err))
		return nil, err
	}
	return cust, nil
}

func validateOnboardRequest(req OnboardRequest, now time.Time) (OnboardRequest, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.SecondLastName = strings.TrimSpace(req.SecondLastName)

	switch {
	case req.FirstName == "":
		return req, apperrors.NewValidationError("firstName", "must not be blank")
	case req.LastName == "":
		return req, apperrors.NewValidationError("lastName", "must not be blank")
	case req.SecondLastName == "":
		return req, apperrors.NewValidationError("secondLastName", "must not be blank")
	case req.DateOfBirth.IsZero():
		return req, apperrors.NewValidationError("dateOfBirth", "is required")
	case !clock.Date(req.DateOfBirth).Before(clock.Date(now)):
		return req, apperrors.NewValidationError("dateOfBirth", "must be in the past")
	}

	req.DateOfBirth = clock.Date(req.DateOfBirth)
	return req, nil
}
