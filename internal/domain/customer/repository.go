package customer

import (
	"context"

	"github.com/google/uuid"
)

type CustomerRepository interface {
	// Save inserts the customer or overwrites the stored row with the same ID.
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID uuid.UUID) (*Customer, error)
}
