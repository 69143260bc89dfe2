// Package earning contains the Earning aggregate: a seller's net proceeds
// from one sub-order after commission deduction, subject to a holding period
// before it becomes eligible for payout.
package earning

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrEarningIsNotConstructed is returned when an Earning was not created
// through NewEarning or RestoreEarning.
var ErrEarningIsNotConstructed = errors.New("Earning must be created via NewEarning or RestoreEarning")

// Earning records what one seller is owed for one sub-order. At most one
// earning exists per (seller, sub-order) pair; the splitter's idempotence
// check enforces that. Amounts are exact by construction:
// net = gross - commission, with commission derived from the rate using
// round-half-up on this earning alone.
type Earning struct {
	id         kernel.UUID
	sellerID   kernel.UUID
	subOrderID kernel.UUID
	orderID    kernel.UUID

	gross      kernel.Money
	commission kernel.Money
	rate       kernel.CommissionRate
	net        kernel.Money

	status        Status
	availableDate time.Time
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewEarning creates a pending earning for a seller's sub-order. Commission
// and net are computed here, not passed in, so the net + commission = gross
// invariant holds by construction. availableDate is truncated to day
// granularity since settlement eligibility is a date, not an instant.
func NewEarning(
	id kernel.UUID,
	sellerID kernel.UUID,
	subOrderID kernel.UUID,
	orderID kernel.UUID,
	gross kernel.Money,
	rate kernel.CommissionRate,
	availableDate time.Time,
	createdAt time.Time,
) (*Earning, error) {
	if err := errors.Join(
		id.Validate(), sellerID.Validate(), subOrderID.Validate(), orderID.Validate(),
	); err != nil {
		return nil, err
	}

	commission := rate.ApplyTo(gross)

	return &Earning{
		id:            id,
		sellerID:      sellerID,
		subOrderID:    subOrderID,
		orderID:       orderID,
		gross:         gross,
		commission:    commission,
		rate:          rate,
		net:           gross.Sub(commission),
		status:        StatusPending,
		availableDate: availableDate.Truncate(24 * time.Hour),
		createdAt:     createdAt,
		updatedAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreEarning rebuilds an earning from persistence.
func RestoreEarning(
	id kernel.UUID,
	sellerID kernel.UUID,
	subOrderID kernel.UUID,
	orderID kernel.UUID,
	gross kernel.Money,
	commission kernel.Money,
	rate kernel.CommissionRate,
	net kernel.Money,
	status Status,
	availableDate time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*Earning, error) {
	if err := errors.Join(
		id.Validate(), sellerID.Validate(), subOrderID.Validate(),
		orderID.Validate(), status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Earning{
		id:            id,
		sellerID:      sellerID,
		subOrderID:    subOrderID,
		orderID:       orderID,
		gross:         gross,
		commission:    commission,
		rate:          rate,
		net:           net,
		status:        status,
		availableDate: availableDate,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the earning came from a constructor.
func (e *Earning) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEarningIsNotConstructed
	}
	return nil
}

// ID returns the earning identifier.
func (e *Earning) ID() kernel.UUID { return e.id }

// SellerID returns the seller owed this earning.
func (e *Earning) SellerID() kernel.UUID { return e.sellerID }

// SubOrderID returns the sub-order the earning derives from.
func (e *Earning) SubOrderID() kernel.UUID { return e.subOrderID }

// OrderID returns the parent order identifier.
func (e *Earning) OrderID() kernel.UUID { return e.orderID }

// Gross returns the seller's item subtotal in minor units.
func (e *Earning) Gross() kernel.Money { return e.gross }

// Commission returns the platform's cut in minor units.
func (e *Earning) Commission() kernel.Money { return e.commission }

// Rate returns the commission rate applied at split time.
func (e *Earning) Rate() kernel.CommissionRate { return e.rate }

// Net returns gross minus commission in minor units.
func (e *Earning) Net() kernel.Money { return e.net }

// Status returns the payout lifecycle status.
func (e *Earning) Status() Status { return e.status }

// AvailableDate returns the day the holding window ends.
func (e *Earning) AvailableDate() time.Time { return e.availableDate }

// CreatedAt returns when the split created this earning.
func (e *Earning) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns the last status change timestamp.
func (e *Earning) UpdatedAt() time.Time { return e.updatedAt }

// MakeAvailable promotes a pending earning whose holding window has elapsed.
// Fails when the earning is not pending or the window is still open, so a
// repeated settlement pass naturally skips already promoted rows.
func (e *Earning) MakeAvailable(now time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	next, err := e.status.Promote()
	if err != nil {
		return err
	}
	if next != StatusAvailable {
		return errs.NewValueIsInvalidErrorWithCause("earning status",
			fmt.Errorf("%s cannot move to %s", e.status, StatusAvailable))
	}
	if e.availableDate.After(now) {
		return errs.NewValueIsInvalidErrorWithCause("availableDate",
			fmt.Errorf("holding window open until %s", e.availableDate.Format(time.DateOnly)))
	}

	e.status = next
	e.updatedAt = now
	return nil
}

// MarkPaid records that the payout process settled this earning.
func (e *Earning) MarkPaid(now time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	next, err := e.status.Promote()
	if err != nil {
		return err
	}
	if next != StatusPaid {
		return errs.NewValueIsInvalidErrorWithCause("earning status",
			fmt.Errorf("%s cannot move to %s", e.status, StatusPaid))
	}

	e.status = next
	e.updatedAt = now
	return nil
}
