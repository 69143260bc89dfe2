package order

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrSubOrderIsNotConstructed is returned when a SubOrder was not created
// through NewSubOrder or RestoreSubOrder.
var ErrSubOrderIsNotConstructed = errors.New("SubOrder must be created via NewSubOrder or RestoreSubOrder")

// SubOrder is the seller-scoped partition of an Order. The commission
// splitter creates exactly one per distinct seller when the parent order
// reaches its paid milestone. A sub-order carries the seller's item subset,
// the gross subtotal of those items and its own status and tracking fields,
// so each seller's shipment progresses independently.
type SubOrder struct {
	id       kernel.UUID
	orderID  kernel.UUID
	sellerID kernel.UUID
	items    []Item
	subtotal kernel.Money
	status   Status

	trackingNumber string
	carrier        string
	createdAt      time.Time

	isConstructed bool
}

// NewSubOrder creates a sub-order for one seller's share of a parent order.
// The subtotal must equal the sum of the item subtotals; the splitter
// guarantees this and the constructor re-checks it.
func NewSubOrder(
	id kernel.UUID,
	orderID kernel.UUID,
	sellerID kernel.UUID,
	items []Item,
	subtotal kernel.Money,
	status Status,
	createdAt time.Time,
) (*SubOrder, error) {
	if err := errors.Join(
		id.Validate(), orderID.Validate(), sellerID.Validate(), status.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	var total kernel.Money
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal())
	}
	if total.Int64() != subtotal.Int64() {
		return nil, errs.NewValueIsInvalidError("subtotal")
	}

	return &SubOrder{
		id:            id,
		orderID:       orderID,
		sellerID:      sellerID,
		items:         items,
		subtotal:      subtotal,
		status:        status,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreSubOrder rebuilds a sub-order from persistence.
func RestoreSubOrder(
	id kernel.UUID,
	orderID kernel.UUID,
	sellerID kernel.UUID,
	items []Item,
	subtotal kernel.Money,
	status Status,
	trackingNumber string,
	carrier string,
	createdAt time.Time,
) (*SubOrder, error) {
	if err := errors.Join(
		id.Validate(), orderID.Validate(), sellerID.Validate(), status.Validate(),
	); err != nil {
		return nil, err
	}

	return &SubOrder{
		id:             id,
		orderID:        orderID,
		sellerID:       sellerID,
		items:          items,
		subtotal:       subtotal,
		status:         status,
		trackingNumber: trackingNumber,
		carrier:        carrier,
		createdAt:      createdAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the sub-order came from a constructor.
func (s *SubOrder) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSubOrderIsNotConstructed
	}
	return nil
}

// ID returns the sub-order identifier.
func (s *SubOrder) ID() kernel.UUID { return s.id }

// OrderID returns the parent order identifier.
func (s *SubOrder) OrderID() kernel.UUID { return s.orderID }

// SellerID returns the seller this partition belongs to.
func (s *SubOrder) SellerID() kernel.UUID { return s.sellerID }

// Items returns the seller's item subset.
func (s *SubOrder) Items() []Item { return s.items }

// Subtotal returns the gross value of the seller's items in minor units.
func (s *SubOrder) Subtotal() kernel.Money { return s.subtotal }

// Status returns the sub-order's lifecycle status.
func (s *SubOrder) Status() Status { return s.status }

// TrackingNumber returns the tracking number, empty until set.
func (s *SubOrder) TrackingNumber() string { return s.trackingNumber }

// Carrier returns the carrier name, empty until set.
func (s *SubOrder) Carrier() string { return s.carrier }

// CreatedAt returns when the split created this partition.
func (s *SubOrder) CreatedAt() time.Time { return s.createdAt }

// ChangeStatus applies a status transition to the sub-order under the given
// policy, mirroring Order.ChangeStatus. The returned record carries both the
// parent order id and the sub-order id so observers subscribed to either see
// the change.
func (s *SubOrder) ChangeStatus(
	next Status,
	actorID kernel.UUID,
	note string,
	policy TransitionPolicy,
	now time.Time,
) (StatusChange, error) {
	if err := s.Validate(); err != nil {
		return StatusChange{}, err
	}
	if err := actorID.Validate(); err != nil {
		return StatusChange{}, err
	}
	if err := s.status.CanTransitionTo(next, policy); err != nil {
		return StatusChange{}, err
	}

	previous := s.status
	s.status = next
	subID := s.id

	return StatusChange{
		OrderID:    s.orderID,
		SubOrderID: &subID,
		Previous:   previous,
		New:        next,
		ActorID:    actorID,
		Note:       note,
		OccurredAt: now,
	}, nil
}

// SetTracking records tracking details on the sub-order. Both fields are
// required.
func (s *SubOrder) SetTracking(
	trackingNumber string,
	carrier string,
	actorID kernel.UUID,
	now time.Time,
) (TrackingChange, error) {
	if err := s.Validate(); err != nil {
		return TrackingChange{}, err
	}
	if err := actorID.Validate(); err != nil {
		return TrackingChange{}, err
	}
	if trackingNumber == "" {
		return TrackingChange{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	if carrier == "" {
		return TrackingChange{}, errs.NewValueIsRequiredError("carrier")
	}

	s.trackingNumber = trackingNumber
	s.carrier = carrier
	subID := s.id

	return TrackingChange{
		OrderID:        s.orderID,
		SubOrderID:     &subID,
		Status:         s.status,
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		ActorID:        actorID,
		OccurredAt:     now,
	}, nil
}
