package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Money is a monetary amount in integer minor units (e.g. cents).
// All marketplace arithmetic is integer arithmetic; there is no floating
// point anywhere on the money path.
type Money int64

// NewMoney creates a Money value. Negative amounts are rejected because no
// order, sub-order or earning in this domain carries a negative amount.
func NewMoney(minorUnits int64) (Money, error) {
	if minorUnits < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d is negative", minorUnits))
	}
	return Money(minorUnits), nil
}

// Int64 returns the amount in minor units.
func (m Money) Int64() int64 {
	return int64(m)
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the difference, which stays non-negative for valid inputs
// because commission never exceeds gross.
func (m Money) Sub(other Money) Money {
	return m - other
}

// MultiplyQty returns the amount scaled by an item quantity.
func (m Money) MultiplyQty(qty int) Money {
	return m * Money(qty)
}

// MaxCommissionRateBp is the upper bound for a commission rate: 10000 basis
// points, i.e. 100%.
const MaxCommissionRateBp = 10000

// CommissionRate is the platform commission expressed in basis points
// (1/100 of a percent), so 10% is 1000 basis points. Storing the rate as an
// integer keeps commission arithmetic exact.
type CommissionRate struct {
	basisPoints int
}

// NewCommissionRate creates a rate from basis points, bounded to [0, 10000].
func NewCommissionRate(basisPoints int) (CommissionRate, error) {
	if basisPoints < 0 || basisPoints > MaxCommissionRateBp {
		return CommissionRate{}, errs.NewValueIsOutOfRangeError(
			"commissionRate", basisPoints, 0, MaxCommissionRateBp)
	}
	return CommissionRate{basisPoints: basisPoints}, nil
}

// BasisPoints returns the raw rate value.
func (r CommissionRate) BasisPoints() int {
	return r.basisPoints
}

// ApplyTo computes the commission on a gross amount using round-half-up.
// Rounding happens independently per call; callers that need an exact
// complement should derive it as gross minus the returned commission.
func (r CommissionRate) ApplyTo(gross Money) Money {
	return Money((gross.Int64()*int64(r.basisPoints) + MaxCommissionRateBp/2) / MaxCommissionRateBp)
}
