package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// StatusEventRepository is the append-only history of status and tracking
// changes. Appends happen after the owning transaction commits, so a failed
// append must never undo the state change it describes.
type StatusEventRepository interface {
	// Append stores one history record.
	Append(ctx context.Context, event order.StatusEvent) error

	// GetTimeline retrieves the history of one parent order, oldest first.
	// Sub-order events are included since they carry the parent order id.
	GetTimeline(ctx context.Context, orderID kernel.UUID) ([]order.StatusEvent, error)
}
