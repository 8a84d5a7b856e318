package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

const (
	loanColumns        = `id, customer_id, loan_amount, interest_rate, scheme, commission, total_amount, status, created_at, updated_at`
	installmentColumns = `id, loan_id, number, amount, scheduled_payment_date, status, created_at`
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

// WithinTx runs fn in a single database transaction. Rows locked through
// LockCustomer stay locked until the transaction commits or rolls back.
func (r *LoanRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx loan.OriginationTx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}

	if err := fn(ctx, &originationTx{tx: tx, logger: r.logger}); err != nil {
		r.rollback(ctx, tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return apperrors.PersistenceConflict("failed to commit transaction", err)
	}
	return nil
}

func (r *LoanRepository) rollback(ctx context.Context, tx pgx.Tx) {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
	}
}

type originationTx struct {
	tx     pgx.Tx
	logger *slog.Logger
}

func (t *originationTx) LockCustomer(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`

	status := "success"
	startTime := time.Now()
	cust, err := scanCustomer(t.tx.QueryRow(ctx, query, customerID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	monitoring.RecordDBQuery("LockCustomer", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			t.logger.WarnContext(ctx, "Customer not found for locking", "customer_id", customerID)
			return nil, apperrors.CustomerNotFound(customerID)
		}
		t.logger.ErrorContext(ctx, "Failed to lock customer row", "customer_id", customerID, "error", err)
		return nil, translateDBError(err, t.logger)
	}
	return cust, nil
}

func (t *originationTx) UpdateAvailableCredit(ctx context.Context, cust *customer.Customer) error {
	sql := `
        UPDATE customers
        SET available_credit_line = $1, version = version + 1, updated_at = $2
        WHERE id = $3 AND version = $4`

	status := "success"
	startTime := time.Now()
	cmdTag, err := t.tx.Exec(ctx, sql, cust.AvailableCreditLine, cust.UpdatedAt, cust.ID, cust.Version)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpdateAvailableCredit", status, time.Since(startTime))

	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to update available credit", "customer_id", cust.ID, "error", err)
		return translateDBError(err, t.logger)
	}
	if cmdTag.RowsAffected() != 1 {
		t.logger.WarnContext(ctx, "Available credit update affected zero rows", "customer_id", cust.ID, "version", cust.Version)
		return apperrors.PersistenceConflict(fmt.Sprintf("customer %s was modified concurrently", cust.ID), nil)
	}

	cust.Version++
	return nil
}

func (t *originationTx) CreateLoan(ctx context.Context, l *loan.Loan) error {
	loanSQL := `
        INSERT INTO loans (` + loanColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	startTime := time.Now()
	_, err := t.tx.Exec(ctx, loanSQL,
		l.ID, l.CustomerID, l.LoanAmount, l.InterestRate, l.Scheme,
		l.Commission, l.TotalAmount, string(l.Status), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		monitoring.RecordDBQuery("CreateLoan", "error", time.Since(startTime))
		t.logger.ErrorContext(ctx, "Failed to insert loan", "loan_id", l.ID, "error", err)
		return translateDBError(err, t.logger)
	}

	if len(l.Installments) > 0 {
		installmentSQL := `
            INSERT INTO installments (` + installmentColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`

		batch := &pgx.Batch{}
		for _, inst := range l.Installments {
			batch.Queue(installmentSQL, inst.ID, l.ID, inst.Number, inst.Amount, inst.ScheduledPaymentDate, string(inst.Status), inst.CreatedAt)
		}

		results := t.tx.SendBatch(ctx, batch)
		for i := range l.Installments {
			if _, err := results.Exec(); err != nil {
				results.Close()
				monitoring.RecordDBQuery("CreateLoan", "error", time.Since(startTime))
				t.logger.ErrorContext(ctx, "Failed executing installment batch insert", "error", err, "entry_index", i, "loan_id", l.ID)
				return translateDBError(err, t.logger)
			}
		}
		if err := results.Close(); err != nil {
			monitoring.RecordDBQuery("CreateLoan", "error", time.Since(startTime))
			t.logger.ErrorContext(ctx, "Failed closing installment batch results", "error", err, "loan_id", l.ID)
			return fmt.Errorf("%w: closing batch results failed: %w", apperrors.ErrDatabase, err)
		}
	}

	monitoring.RecordDBQuery("CreateLoan", "success", time.Since(startTime))
	t.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.ID, "num_installments", len(l.Installments))
	return nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	status := "success"
	startTime := time.Now()

	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.LoanNotFound(loanID)
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	installmentsQuery := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY number ASC`
	installments, err := r.queryInstallments(ctx, installmentsQuery, loanID)
	if err != nil {
		return nil, err
	}
	l.Installments = installments[loanID]
	return l, nil
}

func (r *LoanRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY created_at DESC`
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		monitoring.RecordDBQuery("ListLoansByCustomer", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query customer loans", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			monitoring.RecordDBQuery("ListLoansByCustomer", "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err = rows.Err(); err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("ListLoansByCustomer", status, time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	if len(loans) == 0 {
		return loans, nil
	}

	installmentsQuery := `
        SELECT i.id, i.loan_id, i.number, i.amount, i.scheduled_payment_date, i.status, i.created_at
        FROM installments i
        JOIN loans l ON l.id = i.loan_id
        WHERE l.customer_id = $1
        ORDER BY i.loan_id, i.number ASC`
	byLoan, err := r.queryInstallments(ctx, installmentsQuery, customerID)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		l.Installments = byLoan[l.ID]
	}
	return loans, nil
}

func (r *LoanRepository) queryInstallments(ctx context.Context, query string, arg uuid.UUID) (map[uuid.UUID][]loan.Installment, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query installments", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	byLoan := make(map[uuid.UUID][]loan.Installment)
	for rows.Next() {
		var (
			inst   loan.Installment
			status string
		)
		err := rows.Scan(&inst.ID, &inst.LoanID, &inst.Number, &inst.Amount, &inst.ScheduledPaymentDate, &status, &inst.CreatedAt)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan installment row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		inst.Status = loan.InstallmentStatus(status)
		inst.ScheduledPaymentDate = inst.ScheduledPaymentDate.UTC()
		inst.CreatedAt = inst.CreatedAt.UTC()
		byLoan[inst.LoanID] = append(byLoan[inst.LoanID], inst)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating installment rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return byLoan, nil
}

func (r *LoanRepository) PortfolioSummary(ctx context.Context) (loan.PortfolioSummary, error) {
	query := `
        SELECT COUNT(*),
               COALESCE(SUM(loan_amount), 0),
               COALESCE(SUM(commission), 0),
               COALESCE(SUM(total_amount), 0),
               COUNT(DISTINCT customer_id)
        FROM loans`

	status := "success"
	startTime := time.Now()
	var summary loan.PortfolioSummary
	err := r.db.QueryRow(ctx, query).Scan(
		&summary.Loans,
		&summary.PrincipalAmount,
		&summary.CommissionAmount,
		&summary.TotalAmount,
		&summary.CustomersWithLoans,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("PortfolioSummary", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to compute portfolio summary", "error", err)
		return loan.PortfolioSummary{}, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return summary, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var (
		l      loan.Loan
		status string
	)
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.LoanAmount, &l.InterestRate, &l.Scheme,
		&l.Commission, &l.TotalAmount, &status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = loan.LoanStatus(status)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return &l, nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		case "40001", "40P01", "55P03":
			contextLogger.Warn("Database serialization failure", "code", pgErr.Code, "message", pgErr.Message)
			return apperrors.PersistenceConflict("concurrent update detected", err)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
