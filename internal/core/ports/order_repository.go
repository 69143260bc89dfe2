package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no order exists under id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Lookup resolves id against parent orders first and seller sub-orders
	// second, returning a tagged result that says which table matched.
	// Returns errs.ErrObjectNotFound when neither matches.
	Lookup(ctx context.Context, id kernel.UUID) (order.Lookup, error)
}

// SubOrderRepository defines the persistence contract for seller sub-orders.
type SubOrderRepository interface {
	// Add persists a new sub-order aggregate to storage.
	Add(ctx context.Context, aggregate *order.SubOrder) error

	// Update persists changes to an existing sub-order aggregate.
	Update(ctx context.Context, aggregate *order.SubOrder) error

	// Get retrieves a sub-order aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no sub-order exists under id.
	Get(ctx context.Context, id kernel.UUID) (*order.SubOrder, error)

	// GetAllForOrder retrieves every sub-order carved out of the given
	// parent order, in creation order.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*order.SubOrder, error)
}
