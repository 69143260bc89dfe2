// Package queries contains read operations over the order store. Handlers
// read the database directly with SQL instead of going through aggregates,
// keeping the read side decoupled from the write side.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"

	"github.com/google/uuid"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the detail view of an order or sub-order.
// The caller's identity and role scope what may be returned: customers only
// see orders they bought, elevated roles see everything.
type GetOrderQuery struct {
	orderID kernel.UUID
	actorID kernel.UUID
	role    kernel.Role

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a validated order detail query.
func NewGetOrderQuery(orderID kernel.UUID, actorID kernel.UUID, role kernel.Role) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate(), role.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		actorID: actorID,
		role:    role,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the id to resolve, parent or sub-order.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// ActorID returns the requesting user.
func (q GetOrderQuery) ActorID() kernel.UUID { return q.actorID }

// Role returns the requesting user's role.
func (q GetOrderQuery) Role() kernel.Role { return q.role }

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderItemResponse is one basket line in the detail view.
type OrderItemResponse struct {
	ProductID string
	SellerID  string
	Qty       int
	UnitPrice int64
	Subtotal  int64
}

// SubOrderResponse is one seller partition in the detail view.
type SubOrderResponse struct {
	ID             string
	SellerID       string
	Subtotal       int64
	Status         string
	TrackingNumber string
	Carrier        string
}

// TimelineEventResponse is one audit trail entry.
type TimelineEventResponse struct {
	ID             string
	PreviousStatus string
	NewStatus      string
	ActorID        string
	Note           string
	TrackingNumber string
	Carrier        string
	OccurredAt     time.Time
}

// GetOrderQueryResponse is the detail view of an order or sub-order.
// Source says which table the id resolved against: "orders" or "sub_orders".
type GetOrderQueryResponse struct {
	Source  string
	ID      string
	BuyerID string

	Amount int64
	Status string

	ShippingAddress string
	PaymentRef      string
	TrackingNumber  string
	Carrier         string

	CreatedAt         time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	EstimatedDelivery time.Time

	Items     []OrderItemResponse
	SubOrders []SubOrderResponse
	Timeline  []TimelineEventResponse

	// orderUUID is the parent order id used to load the timeline, even when
	// the response describes a sub-order.
	orderUUID uuid.UUID
}
