package order

// LookupSource tags which table an identifier resolved against.
type LookupSource int

const (
	// SourceOrders means the id matched a parent order.
	SourceOrders LookupSource = iota + 1

	// SourceSubOrders means the id matched a seller sub-order.
	SourceSubOrders
)

// String returns the wire representation used in the order-detail response.
func (s LookupSource) String() string {
	if s == SourceSubOrders {
		return "sub_orders"
	}
	return "orders"
}

// Lookup is the tagged result of resolving a single id that may name either
// a parent order or a sub-order. Exactly one of Order and SubOrder is set,
// indicated by Source. Callers handle both shapes explicitly instead of
// falling back on a not-found error from the first table.
type Lookup struct {
	Source   LookupSource
	Order    *Order
	SubOrder *SubOrder
}

// FromOrder wraps a parent order into a lookup result.
func FromOrder(o *Order) Lookup {
	return Lookup{Source: SourceOrders, Order: o}
}

// FromSubOrder wraps a sub-order into a lookup result.
func FromSubOrder(s *SubOrder) Lookup {
	return Lookup{Source: SourceSubOrders, SubOrder: s}
}
