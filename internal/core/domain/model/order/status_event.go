package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// StatusEvent is one entry of the append-only audit timeline. Events are
// never mutated or deleted; the ordered sequence for an order id is its
// status history. A tracking update produces an event with equal previous
// and new status and the tracking fields populated.
type StatusEvent struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	SubOrderID     *kernel.UUID
	Previous       Status
	New            Status
	ActorID        kernel.UUID
	Note           string
	TrackingNumber string
	Carrier        string
	OccurredAt     time.Time
}

// NewStatusEvent builds the audit record for a status change.
func NewStatusEvent(change StatusChange) StatusEvent {
	return StatusEvent{
		ID:         kernel.NewUUID(),
		OrderID:    change.OrderID,
		SubOrderID: change.SubOrderID,
		Previous:   change.Previous,
		New:        change.New,
		ActorID:    change.ActorID,
		Note:       change.Note,
		OccurredAt: change.OccurredAt,
	}
}

// NewTrackingEvent builds the audit record for a tracking update. Status is
// unchanged, so previous and new carry the current status.
func NewTrackingEvent(change TrackingChange) StatusEvent {
	return StatusEvent{
		ID:             kernel.NewUUID(),
		OrderID:        change.OrderID,
		SubOrderID:     change.SubOrderID,
		Previous:       change.Status,
		New:            change.Status,
		ActorID:        change.ActorID,
		TrackingNumber: change.TrackingNumber,
		Carrier:        change.Carrier,
		OccurredAt:     change.OccurredAt,
	}
}
