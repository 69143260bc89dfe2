package order

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Item is one line of an order's basket: a product, the seller offering it,
// a quantity and the unit price captured at purchase time.
//
// SellerID is a pointer because legacy baskets contain platform-owned or
// placeholder lines with no seller attached; the commission splitter skips
// those when partitioning an order.
type Item struct {
	ProductID kernel.UUID
	SellerID  *kernel.UUID
	Qty       int
	UnitPrice kernel.Money
}

// Validate checks the line is well formed. A nil SellerID is legal; an
// invalid (zero-value) one is not.
func (i Item) Validate() error {
	if err := i.ProductID.Validate(); err != nil {
		return err
	}
	if i.SellerID != nil {
		if err := i.SellerID.Validate(); err != nil {
			return err
		}
	}
	if i.Qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty",
			fmt.Errorf("%d is not greater than 0", i.Qty))
	}
	return nil
}

// Subtotal returns unit price times quantity in minor units.
func (i Item) Subtotal() kernel.Money {
	return i.UnitPrice.MultiplyQty(i.Qty)
}

// HasSeller reports whether the line is attributable to a seller and thus
// participates in the commission split.
func (i Item) HasSeller() bool {
	return i.SellerID != nil
}
