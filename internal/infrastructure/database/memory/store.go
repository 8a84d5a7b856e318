// Package memory holds an in-process store used by the memory database driver
// and by tests that exercise the services without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu         sync.RWMutex
	customers  map[uuid.UUID]*customer.Customer
	loans      map[uuid.UUID]*loan.Loan
	byCustomer map[uuid.UUID][]uuid.UUID

	locksMu sync.Mutex
	locks   map[uuid.UUID]*customerLock

	logger *slog.Logger
}

var (
	_ customer.CustomerRepository = (*Store)(nil)
	_ loan.Repository             = (*Store)(nil)
)

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		customers:  make(map[uuid.UUID]*customer.Customer),
		loans:      make(map[uuid.UUID]*loan.Loan),
		byCustomer: make(map[uuid.UUID][]uuid.UUID),
		locks:      make(map[uuid.UUID]*customerLock),
		logger:     logger.With("component", "MemoryStore"),
	}
}

func (s *Store) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cust.Clone()
	if existing, ok := s.customers[cust.ID]; ok {
		if existing.Version != cust.Version {
			s.logger.WarnContext(ctx, "Customer save skipped, stored version changed",
				"customer_id", cust.ID, "expected", cust.Version, "actual", existing.Version)
			return apperrors.PersistenceConflict("customer was modified concurrently", nil)
		}
		stored.Version = existing.Version + 1
		stored.CreatedAt = existing.CreatedAt
	}
	s.customers[cust.ID] = stored
	cust.Version = stored.Version
	return nil
}

func (s *Store) FindByID(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cust, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.CustomerNotFound(customerID)
	}
	return cust.Clone(), nil
}

// WithinTx serialises transactions per locked customer. Writes are staged and
// only become visible when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx loan.OriginationTx) error) error {
	tx := &memTx{
		store:     s,
		held:      make(map[uuid.UUID]*customerLock),
		base:      make(map[uuid.UUID]int64),
		customers: make(map[uuid.UUID]*customer.Customer),
	}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func (s *Store) GetLoanByID(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.loans[loanID]
	if !ok {
		return nil, apperrors.LoanNotFound(loanID)
	}
	return cloneLoan(l), nil
}

func (s *Store) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byCustomer[customerID]
	loans := make([]*loan.Loan, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		loans = append(loans, cloneLoan(s.loans[ids[i]]))
	}
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].CreatedAt.After(loans[j].CreatedAt)
	})
	return loans, nil
}

func (s *Store) PortfolioSummary(ctx context.Context) (loan.PortfolioSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := loan.PortfolioSummary{
		PrincipalAmount:  decimal.Zero,
		CommissionAmount: decimal.Zero,
		TotalAmount:      decimal.Zero,
	}
	for _, l := range s.loans {
		summary.Loans++
		summary.PrincipalAmount = summary.PrincipalAmount.Add(l.LoanAmount)
		summary.CommissionAmount = summary.CommissionAmount.Add(l.Commission)
		summary.TotalAmount = summary.TotalAmount.Add(l.TotalAmount)
	}
	summary.CustomersWithLoans = int64(len(s.byCustomer))
	return summary, nil
}

// customerLock is a one-slot semaphore. refs counts transactions holding or
// waiting for it so the entry can be dropped once nobody needs it.
type customerLock struct {
	ch   chan struct{}
	refs int
}

func (s *Store) acquireLock(customerID uuid.UUID) *customerLock {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[customerID]
	if !ok {
		l = &customerLock{ch: make(chan struct{}, 1)}
		s.locks[customerID] = l
	}
	l.refs++
	return l
}

func (s *Store) dropLock(customerID uuid.UUID) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	if l, ok := s.locks[customerID]; ok {
		l.refs--
		if l.refs == 0 {
			delete(s.locks, customerID)
		}
	}
}

type memTx struct {
	store     *Store
	held      map[uuid.UUID]*customerLock
	base      map[uuid.UUID]int64
	customers map[uuid.UUID]*customer.Customer
	loans     []*loan.Loan
}

func (t *memTx) LockCustomer(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	if _, ok := t.held[customerID]; !ok {
		lock := t.store.acquireLock(customerID)
		select {
		case lock.ch <- struct{}{}:
			t.held[customerID] = lock
		case <-ctx.Done():
			t.store.dropLock(customerID)
			return nil, apperrors.PersistenceConflict("timed out waiting for customer lock", ctx.Err())
		}
	}

	if staged, ok := t.customers[customerID]; ok {
		return staged.Clone(), nil
	}
	return t.load(ctx, customerID)
}

// load reads the committed customer and remembers the version the
// transaction started from.
func (t *memTx) load(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	cust, err := t.store.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if _, ok := t.base[customerID]; !ok {
		t.base[customerID] = cust.Version
	}
	return cust, nil
}

func (t *memTx) UpdateAvailableCredit(ctx context.Context, cust *customer.Customer) error {
	current, ok := t.customers[cust.ID]
	if !ok {
		var err error
		if current, err = t.load(ctx, cust.ID); err != nil {
			return err
		}
	}
	if current.Version != cust.Version {
		return apperrors.PersistenceConflict(fmt.Sprintf("customer %s was modified concurrently", cust.ID), nil)
	}

	updated := current.Clone()
	updated.AvailableCreditLine = cust.AvailableCreditLine
	updated.UpdatedAt = cust.UpdatedAt
	updated.Version = current.Version + 1
	t.customers[cust.ID] = updated

	cust.Version = updated.Version
	return nil
}

func (t *memTx) CreateLoan(ctx context.Context, l *loan.Loan) error {
	t.store.mu.RLock()
	_, exists := t.store.loans[l.ID]
	t.store.mu.RUnlock()
	if exists {
		return fmt.Errorf("%w: loan %s", apperrors.ErrAlreadyExists, l.ID)
	}
	for _, staged := range t.loans {
		if staged.ID == l.ID {
			return fmt.Errorf("%w: loan %s", apperrors.ErrAlreadyExists, l.ID)
		}
	}
	t.loans = append(t.loans, cloneLoan(l))
	return nil
}

func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.customers {
		if stored, ok := s.customers[id]; ok && stored.Version != t.base[id] {
			return apperrors.PersistenceConflict(fmt.Sprintf("customer %s was modified concurrently", id), nil)
		}
	}

	for id, cust := range t.customers {
		s.customers[id] = cust
	}
	for _, l := range t.loans {
		s.loans[l.ID] = l
		s.byCustomer[l.CustomerID] = append(s.byCustomer[l.CustomerID], l.ID)
	}
	return nil
}

func (t *memTx) release() {
	for id, lock := range t.held {
		<-lock.ch
		t.store.dropLock(id)
		delete(t.held, id)
	}
}

func cloneLoan(l *loan.Loan) *loan.Loan {
	cp := *l
	cp.Installments = make([]loan.Installment, len(l.Installments))
	copy(cp.Installments, l.Installments)
	return &cp
}
