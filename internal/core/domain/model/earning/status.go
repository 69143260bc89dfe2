package earning

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the payout lifecycle of an earning. It only ever moves forward:
//
//	Pending -> Available -> Paid
//
// Pending earnings sit inside the holding window. The settlement scheduler
// promotes them to Available once the window elapses; a payout process
// outside this core moves Available to Paid.
type Status int

const (
	// StatusUnknown is the invalid zero value.
	StatusUnknown Status = iota

	// StatusPending means the holding window has not elapsed yet.
	StatusPending

	// StatusAvailable means the earning is eligible for payout.
	StatusAvailable

	// StatusPaid means the seller has been paid out.
	StatusPaid
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusAvailable: "available",
		StatusPaid:      "paid",
	}
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
	if s != StatusPending && s != StatusAvailable && s != StatusPaid {
		return errs.NewValueIsInvalidErrorWithCause("earning status",
			fmt.Errorf("%d is not a valid earning status", s))
	}
	return nil
}

// Promote returns the next status in the forward chain. MakeAvailable and
// MarkPaid derive their target from it. Moving past Paid or from an invalid
// status fails; there is no backward move.
func (s Status) Promote() (Status, error) {
	switch s {
	case StatusPending:
		return StatusAvailable, nil
	case StatusAvailable:
		return StatusPaid, nil
	default:
		return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("earning status",
			fmt.Errorf("%s cannot be promoted", s))
	}
}
