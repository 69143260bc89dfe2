package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order or sub-order. The set is closed;
// anything outside it is rejected at the validation boundary.
//
// The main delivery chain is:
//
//	Pending -> Confirmed -> Processing -> Shipped -> OutForDelivery -> Delivered
//
// with Cancelled and Refunded reachable as side exits from earlier states.
// How strictly transitions follow that chain depends on the TransitionPolicy.
type Status int

const (
	// StatusUnknown is the invalid zero value.
	StatusUnknown Status = iota

	// StatusPending is the initial state at checkout, before payment settles.
	StatusPending

	// StatusConfirmed means payment settled. This is the paid milestone that
	// triggers the commission split into sub-orders and earnings.
	StatusConfirmed

	// StatusProcessing means the seller is preparing the shipment.
	StatusProcessing

	// StatusShipped means the parcel was handed to the carrier.
	StatusShipped

	// StatusOutForDelivery means the parcel is on its final leg.
	StatusOutForDelivery

	// StatusDelivered means the buyer received the parcel.
	StatusDelivered

	// StatusCancelled means the order was called off before completion.
	StatusCancelled

	// StatusRefunded means the buyer was paid back.
	StatusRefunded
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "unknown",
		StatusPending:        "pending",
		StatusConfirmed:      "confirmed",
		StatusProcessing:     "processing",
		StatusShipped:        "shipped",
		StatusOutForDelivery: "out_for_delivery",
		StatusDelivered:      "delivered",
		StatusCancelled:      "cancelled",
		StatusRefunded:       "refunded",
	}
}

// StatusFromString maps the wire representation of a status onto the enum.
// Unrecognized values fail with a value-is-invalid error, which the HTTP
// layer surfaces as a 400.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings() {
		if status != StatusUnknown && str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a known order status", s))
}

// String returns the wire representation of the status.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusRefunded {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// IsTerminal reports whether no further transitions are expected under the
// strict policy. Lenient mode ignores terminality.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// TransitionPolicy selects how the state machine treats transitions between
// known statuses.
//
// The historical behavior of the service accepted any known status from any
// other, which lets staff correct mistakes but also permits regressions such
// as delivered back to pending. Whether that looseness is intentional is an
// open product question, so both behaviors are supported and the choice is
// configuration.
type TransitionPolicy int

const (
	// PolicyLenient accepts any known status from any known status.
	PolicyLenient TransitionPolicy = iota

	// PolicyStrict only accepts forward moves along the delivery chain plus
	// the cancel/refund side exits listed in strictNext.
	PolicyStrict
)

// PolicyFromString maps the configuration value onto the enum. The empty
// string selects PolicyLenient, matching the historical behavior.
func PolicyFromString(s string) (TransitionPolicy, error) {
	switch s {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyLenient, errs.NewValueIsInvalidErrorWithCause("transitionPolicy",
			fmt.Errorf("%q is not a known policy", s))
	}
}

// strictNext is the forward-only transition graph used by PolicyStrict.
func strictNext() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:        {StatusConfirmed, StatusCancelled},
		StatusConfirmed:      {StatusProcessing, StatusCancelled, StatusRefunded},
		StatusProcessing:     {StatusShipped, StatusCancelled, StatusRefunded},
		StatusShipped:        {StatusOutForDelivery, StatusRefunded},
		StatusOutForDelivery: {StatusDelivered, StatusRefunded},
		StatusDelivered:      {StatusRefunded},
		StatusCancelled:      {},
		StatusRefunded:       {},
	}
}

// CanTransitionTo checks whether moving from s to next is allowed under the
// given policy. The next status must always be a member of the known set;
// beyond that, PolicyLenient accepts everything while PolicyStrict consults
// the forward graph.
func (s Status) CanTransitionTo(next Status, policy TransitionPolicy) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if policy == PolicyLenient {
		return nil
	}

	for _, allowed := range strictNext()[s] {
		if allowed == next {
			return nil
		}
	}

	return errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("transition from %s to %s is not allowed", s, next))
}
