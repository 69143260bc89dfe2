package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
)

// SettlementBatch summarizes one promotion pass over due pending earnings.
type SettlementBatch struct {
	PromotedCount int64
	TotalNet      kernel.Money
}

// EarningRepository defines the persistence contract for seller earnings.
type EarningRepository interface {
	// Add persists a new earning aggregate to storage.
	Add(ctx context.Context, aggregate *earning.Earning) error

	// Get retrieves an earning aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no earning exists under id.
	Get(ctx context.Context, id kernel.UUID) (*earning.Earning, error)

	// ExistsForOrder reports whether any earning was already carved out of
	// the given parent order. The splitter uses this as its idempotence
	// check before creating sub-orders.
	ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error)

	// PromoteDue moves every pending earning whose available date has
	// passed to available, in one statement, and reports how many rows
	// moved and their combined net amount. Rows already promoted by a
	// concurrent pass are naturally excluded by the status predicate.
	PromoteDue(ctx context.Context, now time.Time) (SettlementBatch, error)
}
