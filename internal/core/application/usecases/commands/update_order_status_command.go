package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand moves an order or sub-order to a new lifecycle
// status. The id may name either a parent order or a seller sub-order; the
// handler resolves which one.
type UpdateOrderStatusCommand struct {
	orderID   kernel.UUID
	newStatus order.Status
	actorID   kernel.UUID
	note      string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a validated status update command.
// The status must be a member of the known set; unknown values are rejected
// here rather than deep in the transition logic.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	newStatus order.Status,
	actorID kernel.UUID,
	note string,
) (UpdateOrderStatusCommand, error) {
	if err := errors.Join(
		orderID.Validate(), newStatus.Validate(), actorID.Validate(),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		orderID:   orderID,
		newStatus: newStatus,
		actorID:   actorID,
		note:      note,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the id being transitioned, parent or sub-order.
func (c *UpdateOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// NewStatus returns the requested target status.
func (c *UpdateOrderStatusCommand) NewStatus() order.Status { return c.newStatus }

// ActorID returns who requested the change.
func (c *UpdateOrderStatusCommand) ActorID() kernel.UUID { return c.actorID }

// Note returns the optional free-text annotation for the audit trail.
func (c *UpdateOrderStatusCommand) Note() string { return c.note }

// Validate ensures the command was created through the constructor.
func (c *UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(
		ErrUpdateOrderStatusCommandIsNotConstructed,
	)
}
