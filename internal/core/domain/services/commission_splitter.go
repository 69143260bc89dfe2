package services

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// ErrNoAttributableItems is returned when an order contains no line with a
// seller attached, leaving nothing to split.
var ErrNoAttributableItems = errors.New("order has no items attributable to a seller")

// SplitResult pairs the sub-orders and earnings produced for one order.
// Both slices have the same length and index i of each refers to the same
// seller.
type SplitResult struct {
	SubOrders []*order.SubOrder
	Earnings  []*earning.Earning
}

// CommissionSplitter partitions a paid order into one sub-order and one
// earning per distinct seller. It is pure: persistence and the idempotence
// check live in the command handler, this service only computes.
//
// Money semantics: each seller group's gross is the sum of that seller's
// item subtotals; commission is rounded half-up per group independently,
// with no remainder correction across groups; net is gross minus commission
// exactly.
type CommissionSplitter struct{}

// NewCommissionSplitter creates a splitter instance.
func NewCommissionSplitter() CommissionSplitter {
	return CommissionSplitter{}
}

// Split partitions ord by seller. Items without a seller id (platform or
// placeholder lines) are skipped. Seller groups keep the order in which
// each seller first appears in the basket, so repeated runs over the same
// order produce the same layout. The earning's holding window ends
// holdDays after now.
func (s CommissionSplitter) Split(
	ord *order.Order,
	rate kernel.CommissionRate,
	holdDays int,
	now time.Time,
) (SplitResult, error) {
	if err := ord.Validate(); err != nil {
		return SplitResult{}, err
	}

	groups := map[string][]order.Item{}
	sellerOrder := make([]kernel.UUID, 0)

	for _, item := range ord.Items() {
		if !item.HasSeller() {
			continue
		}
		key := item.SellerID.String()
		if _, seen := groups[key]; !seen {
			sellerOrder = append(sellerOrder, *item.SellerID)
		}
		groups[key] = append(groups[key], item)
	}

	if len(sellerOrder) == 0 {
		return SplitResult{}, ErrNoAttributableItems
	}

	availableDate := now.AddDate(0, 0, holdDays)
	result := SplitResult{
		SubOrders: make([]*order.SubOrder, 0, len(sellerOrder)),
		Earnings:  make([]*earning.Earning, 0, len(sellerOrder)),
	}

	for _, sellerID := range sellerOrder {
		items := groups[sellerID.String()]

		var gross kernel.Money
		for _, item := range items {
			gross = gross.Add(item.Subtotal())
		}

		subOrder, err := order.NewSubOrder(
			kernel.NewUUID(), ord.ID(), sellerID, items, gross, ord.Status(), now)
		if err != nil {
			return SplitResult{}, err
		}

		sellerEarning, err := earning.NewEarning(
			kernel.NewUUID(), sellerID, subOrder.ID(), ord.ID(),
			gross, rate, availableDate, now)
		if err != nil {
			return SplitResult{}, err
		}

		result.SubOrders = append(result.SubOrders, subOrder)
		result.Earnings = append(result.Earnings, sellerEarning)
	}

	return result, nil
}
