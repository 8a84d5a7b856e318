package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, first_name, last_name, second_last_name, date_of_birth, assigned_credit_line, available_credit_line, version, created_at, updated_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

// Save inserts a new customer or overwrites an existing one. Overwrites are
// version checked: the stored row must still carry cust.Version.
func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	logCtx := r.logger.With(slog.String("customerID", cust.ID.String()))
	logCtx.DebugContext(ctx, "Saving customer")

	query := `
        INSERT INTO customers (` + customerColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE
        SET first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            second_last_name = EXCLUDED.second_last_name,
            date_of_birth = EXCLUDED.date_of_birth,
            assigned_credit_line = EXCLUDED.assigned_credit_line,
            available_credit_line = EXCLUDED.available_credit_line,
            version = customers.version + 1,
            updated_at = EXCLUDED.updated_at
        WHERE customers.version = EXCLUDED.version
        RETURNING version`

	status := "success"
	startTime := time.Now()
	var version int64
	err := r.db.QueryRow(ctx, query,
		cust.ID,
		cust.FirstName,
		cust.LastName,
		cust.SecondLastName,
		cust.DateOfBirth,
		cust.AssignedCreditLine,
		cust.AvailableCreditLine,
		cust.Version,
		cust.CreatedAt,
		cust.UpdatedAt,
	).Scan(&version)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("SaveCustomer", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Customer save skipped, stored version changed", slog.Int64("version", cust.Version))
			return apperrors.PersistenceConflict("customer was modified concurrently", err)
		}
		logCtx.ErrorContext(ctx, "Failed to save customer", slog.Any("error", err))
		return translateDBError(err, logCtx)
	}

	cust.Version = version
	logCtx.InfoContext(ctx, "Customer saved successfully", slog.Int64("version", version))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID uuid.UUID) (*customer.Customer, error) {
	logCtx := r.logger.With(slog.String("customerID", customerID.String()))
	logCtx.DebugContext(ctx, "Attempting to find customer by ID")

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	status := "success"
	startTime := time.Now()
	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	monitoring.RecordDBQuery("FindCustomerByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Customer not found")
			return nil, apperrors.CustomerNotFound(customerID)
		}
		logCtx.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.FirstName,
		&cust.LastName,
		&cust.SecondLastName,
		&cust.DateOfBirth,
		&cust.AssignedCreditLine,
		&cust.AvailableCreditLine,
		&cust.Version,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cust.DateOfBirth = cust.DateOfBirth.UTC()
	cust.CreatedAt = cust.CreatedAt.UTC()
	cust.UpdatedAt = cust.UpdatedAt.UTC()
	return &cust, nil
}
