package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
	"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
)

// GetOrderTimelineQuery retrieves the ordered status history of an order.
// A sub-order id resolves to its parent's timeline, which already includes
// the sub-order's own events.
type GetOrderTimelineQuery struct {
	orderID kernel.UUID
	actorID kernel.UUID
	role    kernel.Role

	guard guard.ConstructorGuard
}

// NewGetOrderTimelineQuery creates a validated timeline query.
func NewGetOrderTimelineQuery(orderID kernel.UUID, actorID kernel.UUID, role kernel.Role) (GetOrderTimelineQuery, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate(), role.Validate()); err != nil {
		return GetOrderTimelineQuery{}, err
	}

	return GetOrderTimelineQuery{
		orderID: orderID,
		actorID: actorID,
		role:    role,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the id to resolve, parent or sub-order.
func (q GetOrderTimelineQuery) OrderID() kernel.UUID { return q.orderID }

// ActorID returns the requesting user.
func (q GetOrderTimelineQuery) ActorID() kernel.UUID { return q.actorID }

// Role returns the requesting user's role.
func (q GetOrderTimelineQuery) Role() kernel.Role { return q.role }

// Validate ensures the query was created through the constructor.
func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}
