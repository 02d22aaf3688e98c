package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its food item references.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status and engagement changes of an existing order.
	// Returns gorm's record-not-found error when the order no longer exists.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier.
	// Returns *errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
