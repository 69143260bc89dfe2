package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through
// NewOrder or RestoreOrder, e.g. a zero-value struct.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for a single buyer checkout. It owns the
// basket, the monetary total in minor units, the lifecycle status and the
// shipment tracking details. All mutations go through ChangeStatus and
// SetTracking, which validate the change and return a change record for the
// audit trail and downstream observers.
//
// Invariants:
//   - id and buyerID are valid identifiers
//   - amount covers the basket: sum of item subtotals never exceeds it
//   - status is always a member of the known set
//   - construction only through NewOrder or RestoreOrder
type Order struct {
	id      kernel.UUID
	buyerID kernel.UUID
	amount  kernel.Money
	status  Status
	items   []Item

	shippingAddress string
	paymentRef      string
	trackingNumber  string
	carrier         string

	createdAt   time.Time
	shippedAt   *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates an order in Pending status at checkout time.
// The amount is the charged total in minor units; items describe the basket.
// Returns a validation error when any invariant fails.
func NewOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	amount kernel.Money,
	items []Item,
	shippingAddress string,
	paymentRef string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:          StatusPending,
		shippingAddress: shippingAddress,
		paymentRef:      paymentRef,
		createdAt:       createdAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setItems(items, amount),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence without re-running the
// checkout-time invariants on the basket total, since persisted rows are
// trusted. Identifier and status validity are still enforced.
func RestoreOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	amount kernel.Money,
	status Status,
	items []Item,
	shippingAddress string,
	paymentRef string,
	trackingNumber string,
	carrier string,
	createdAt time.Time,
	shippedAt *time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), buyerID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		buyerID:         buyerID,
		amount:          amount,
		status:          status,
		items:           items,
		shippingAddress: shippingAddress,
		paymentRef:      paymentRef,
		trackingNumber:  trackingNumber,
		carrier:         carrier,
		createdAt:       createdAt,
		shippedAt:       shippedAt,
		deliveredAt:     deliveredAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the order came from a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// BuyerID returns the owning buyer's identifier.
func (o *Order) BuyerID() kernel.UUID { return o.buyerID }

// Amount returns the charged total in minor units.
func (o *Order) Amount() kernel.Money { return o.amount }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Items returns the basket lines.
func (o *Order) Items() []Item { return o.items }

// ShippingAddress returns the delivery address captured at checkout.
func (o *Order) ShippingAddress() string { return o.shippingAddress }

// PaymentRef returns the payment gateway reference for the charge.
func (o *Order) PaymentRef() string { return o.paymentRef }

// TrackingNumber returns the carrier tracking number, empty until set.
func (o *Order) TrackingNumber() string { return o.trackingNumber }

// Carrier returns the carrier name, empty until set.
func (o *Order) Carrier() string { return o.carrier }

// CreatedAt returns the checkout timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// ShippedAt returns when the order entered Shipped, nil before that.
func (o *Order) ShippedAt() *time.Time { return o.shippedAt }

// DeliveredAt returns when the order entered Delivered, nil before that.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// ChangeStatus applies a status transition under the given policy and
// returns the change record describing it. The previous status captured in
// the record is the status immediately before the call. Milestone timestamps
// (shippedAt, deliveredAt) are stamped on first entry into their states.
func (o *Order) ChangeStatus(
	next Status,
	actorID kernel.UUID,
	note string,
	policy TransitionPolicy,
	now time.Time,
) (StatusChange, error) {
	if err := o.Validate(); err != nil {
		return StatusChange{}, err
	}
	if err := actorID.Validate(); err != nil {
		return StatusChange{}, err
	}
	if err := o.status.CanTransitionTo(next, policy); err != nil {
		return StatusChange{}, err
	}

	previous := o.status
	o.status = next

	switch next {
	case StatusShipped:
		if o.shippedAt == nil {
			t := now
			o.shippedAt = &t
		}
	case StatusDelivered:
		if o.deliveredAt == nil {
			t := now
			o.deliveredAt = &t
		}
	}

	return StatusChange{
		OrderID:    o.id,
		Previous:   previous,
		New:        next,
		ActorID:    actorID,
		Note:       note,
		OccurredAt: now,
	}, nil
}

// SetTracking records the carrier tracking details. Both fields are required;
// a missing one fails with a value-is-required error and leaves the order
// untouched.
func (o *Order) SetTracking(
	trackingNumber string,
	carrier string,
	actorID kernel.UUID,
	now time.Time,
) (TrackingChange, error) {
	if err := o.Validate(); err != nil {
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

	o.trackingNumber = trackingNumber
	o.carrier = carrier

	return TrackingChange{
		OrderID:        o.id,
		Status:         o.status,
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		ActorID:        actorID,
		OccurredAt:     now,
	}, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}
	o.buyerID = buyerID
	return nil
}

func (o *Order) setItems(items []Item, amount kernel.Money) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var basketTotal kernel.Money
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		basketTotal = basketTotal.Add(item.Subtotal())
	}

	if basketTotal.Int64() > amount.Int64() {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("basket total %d exceeds order amount %d",
				basketTotal.Int64(), amount.Int64()))
	}

	o.items = items
	o.amount = amount
	return nil
}
