package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// StatusChange is the record an aggregate hands back after a successful
// status mutation. It is the single source for the history append, the
// realtime broadcast and the notification payload, so all three observe the
// same previous/new pair.
type StatusChange struct {
	OrderID    kernel.UUID
	SubOrderID *kernel.UUID
	Previous   Status
	New        Status
	ActorID    kernel.UUID
	Note       string
	OccurredAt time.Time
}

// TrackingChange is the record handed back after tracking details are set.
type TrackingChange struct {
	OrderID        kernel.UUID
	SubOrderID     *kernel.UUID
	Status         Status
	TrackingNumber string
	Carrier        string
	ActorID        kernel.UUID
	OccurredAt     time.Time
}
