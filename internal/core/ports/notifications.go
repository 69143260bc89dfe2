package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// Broadcaster pushes status events onto the realtime channel of the order
// they belong to, so connected clients see transitions as they happen.
// Delivery is best effort: a failed publish is logged, never propagated.
type Broadcaster interface {
	Broadcast(ctx context.Context, event order.StatusEvent) error
}

// Notification is one message bound for a buyer, fanned out over the
// channels the status milestone calls for.
type Notification struct {
	OrderID    string
	SubOrderID string
	Status     string
	Channels   []string
	Message    string
	OccurredAt int64
}

// Notifier hands notifications to the delivery pipeline. Like broadcasting,
// this is best effort and must not block or fail the state change.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
