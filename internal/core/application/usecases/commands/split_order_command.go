package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrSplitOrderCommandIsNotConstructed = errors.New(
	"SplitOrderCommand must be created via NewSplitOrderCommand constructor",
)

// SplitOrderCommand carves a paid parent order into per-seller sub-orders
// and earnings. Issued by the status update flow when an order reaches its
// paid milestone; safe to issue again for the same order.
type SplitOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSplitOrderCommand creates a validated split command for one order.
func NewSplitOrderCommand(orderID kernel.UUID) (SplitOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return SplitOrderCommand{}, err
	}

	return SplitOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the parent order to split.
func (c *SplitOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Validate ensures the command was created through the constructor.
func (c *SplitOrderCommand) Validate() error {
	return c.guard.Validate(
		ErrSplitOrderCommandIsNotConstructed,
	)
}
