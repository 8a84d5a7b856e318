package loan

import (
	"context"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
	"credit-engine/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type LoanService interface {
	Originate(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*Loan, error)

	GetLoan(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	ListCustomerLoans(ctx context.Context, customerID uuid.UUID) ([]*Loan, error)
}

type Policies struct {
	Schemes InterestSchemePolicy
	Plan    InstallmentPlan
}

func DefaultPolicies() Policies {
	return Policies{Schemes: DefaultInterestSchemePolicy(), Plan: DefaultInstallmentPlan()}
}

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	policies        Policies
	pub             event.EventPublisher
	clock           clock.Clock
	newID           func() uuid.UUID
	logger          *slog.Logger
}

var _ LoanService = (*loanServiceImpl)(nil)

type Option func(*loanServiceImpl)

func WithClock(c clock.Clock) Option {
	return func(s *loanServiceImpl) { s.clock = c }
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *loanServiceImpl) { s.newID = gen }
}

func WithEventPublisher(pub event.EventPublisher) Option {
	return func(s *loanServiceImpl) { s.pub = pub }
}

func NewLoanService(r Repository, cs customer.CustomerService, policies Policies, logger *slog.Logger, opts ...Option) LoanService {
	if r == nil || cs == nil {
		panic("loan service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	s := &loanServiceImpl{
		repo:            r,
		customerService: cs,
		policies:        policies,
		pub:             event.NoopPublisher{},
		clock:           clock.System{},
		newID:           uuid.New,
		logger:          logger.With("component", "LoanService"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *loanServiceImpl) Originate(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*Loan, error) {
	started := time.Now()
	logCtx := s.logger.With(slog.String("customerID", customerID.String()), slog.String("amount", amount.String()))
	logCtx.InfoContext(ctx, "Originating new loan")

	if !amount.IsPositive() {
		err := apperrors.NewValidationError("amount", "must be greater than zero")
		s.reject(ctx, logCtx, err)
		return nil, err
	}

	now := s.clock.Now()
	var (
		created   *Loan
		remaining decimal.Decimal
	)

	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx OriginationTx) error {
		cust, err := tx.LockCustomer(ctx, customerID)
		if err != nil {
			return err
		}

		if amount.GreaterThan(cust.AvailableCreditLine) {
			return apperrors.InsufficientCredit(amount, cust.AvailableCreditLine)
		}

		newLoan, err := s.buildLoan(cust, amount, now)
		if err != nil {
			return err
		}

		if err := cust.Debit(amount, now); err != nil {
			return err
		}
		if err := tx.UpdateAvailableCredit(ctx, cust); err != nil {
			return asPersistenceConflict(err, "failed to update customer credit line")
		}
		if err := tx.CreateLoan(ctx, newLoan); err != nil {
			return asPersistenceConflict(err, "failed to persist loan")
		}

		created = newLoan
		remaining = cust.AvailableCreditLine
		return nil
	})
	if err != nil {
		s.reject(ctx, logCtx, err)
		return nil, err
	}

	logCtx.InfoContext(ctx, "Loan originated",
		slog.String("loanID", created.ID.String()),
		slog.String("scheme", created.Scheme),
		slog.String("total", created.TotalAmount.StringFixed(2)),
		slog.String("remainingCredit", remaining.StringFixed(2)),
	)
	principal, _ := created.LoanAmount.Float64()
	monitoring.RecordLoanOriginated(created.Scheme, principal, time.Since(started))
	s.publishOriginated(ctx, created, remaining)

	return created, nil
}

func (s *loanServiceImpl) buildLoan(cust *customer.Customer, amount decimal.Decimal, now time.Time) (*Loan, error) {
	scheme, err := s.policies.Schemes.SelectScheme(cust)
	if err != nil {
		return nil, err
	}

	commission := amount.Mul(scheme.Rate)
	total := amount.Add(commission)

	installments, err := s.policies.Plan.Schedule(total, now)
	if err != nil {
		return nil, err
	}

	newLoan := &Loan{
		ID:           s.newID(),
		CustomerID:   cust.ID,
		LoanAmount:   amount,
		InterestRate: scheme.Rate,
		Scheme:       scheme.Name,
		Commission:   commission,
		TotalAmount:  total,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
		Installments: installments,
	}
	for i := range newLoan.Installments {
		newLoan.Installments[i].ID = s.newID()
		newLoan.Installments[i].LoanID = newLoan.ID
		newLoan.Installments[i].CreatedAt = now
	}
	return newLoan, nil
}

func (s *loanServiceImpl) reject(ctx context.Context, logger *slog.Logger, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal || kind == apperrors.KindPersistenceConflict {
		logger.ErrorContext(ctx, "Loan origination failed", slog.Any("error", err))
	} else {
		logger.WarnContext(ctx, "Loan origination rejected", slog.String("kind", kind.String()), slog.Any("error", err))
	}
	monitoring.RecordOriginationRejected(kind.String())
}

func (s *loanServiceImpl) publishOriginated(ctx context.Context, l *Loan, remaining decimal.Decimal) {
	payload := make([]event.InstallmentPayload, 0, len(l.Installments))
	for _, inst := range l.Installments {
		payload = append(payload, event.InstallmentPayload{
			Number:               inst.Number,
			Amount:               inst.Amount,
			ScheduledPaymentDate: inst.ScheduledPaymentDate.Format(dateLayout),
			Status:               string(inst.Status),
		})
	}

	evt := event.LoanOriginatedEvent{
		LoanID:                   l.ID,
		CustomerID:               l.CustomerID,
		Amount:                   l.LoanAmount,
		InterestRate:             l.InterestRate,
		Scheme:                   l.Scheme,
		Commission:               l.Commission,
		TotalAmount:              l.TotalAmount,
		RemainingAvailableCredit: remaining,
		Installments:             payload,
		Timestamp:                l.CreatedAt,
	}
	if err := s.pub.PublishLoanOriginated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish loan originated event", slog.String("loanID", l.ID.String()), slog.Any("error", err))
	}
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID uuid.UUID) (*Loan, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get loan", slog.String("loanID", loanID.String()), slog.Any("error", err))
		return nil, err
	}
	return l, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID uuid.UUID) ([]*Loan, error) {
	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer loans", slog.String("customerID", customerID.String()), slog.Any("error", err))
		return nil, err
	}
	return loans, nil
}

func asPersistenceConflict(err error, message string) error {
	if apperrors.IsKind(err, apperrors.KindPersistenceConflict) {
		return err
	}
	return apperrors.PersistenceConflict(message, err)
}
