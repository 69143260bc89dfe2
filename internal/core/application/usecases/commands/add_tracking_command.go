package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAddTrackingCommandIsNotConstructed = errors.New(
	"AddTrackingCommand must be created via NewAddTrackingCommand constructor",
)

// AddTrackingCommand attaches carrier tracking details to an order or
// sub-order. Both tracking number and carrier are required together.
type AddTrackingCommand struct {
	orderID        kernel.UUID
	trackingNumber string
	carrier        string
	actorID        kernel.UUID

	guard guard.ConstructorGuard
}

// NewAddTrackingCommand creates a validated tracking command.
func NewAddTrackingCommand(
	orderID kernel.UUID,
	trackingNumber string,
	carrier string,
	actorID kernel.UUID,
) (AddTrackingCommand, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return AddTrackingCommand{}, err
	}
	if trackingNumber == "" {
		return AddTrackingCommand{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	if carrier == "" {
		return AddTrackingCommand{}, errs.NewValueIsRequiredError("carrier")
	}

	return AddTrackingCommand{
		orderID:        orderID,
		trackingNumber: trackingNumber,
		carrier:        carrier,
		actorID:        actorID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the id receiving tracking details, parent or sub-order.
func (c *AddTrackingCommand) OrderID() kernel.UUID { return c.orderID }

// TrackingNumber returns the carrier tracking number.
func (c *AddTrackingCommand) TrackingNumber() string { return c.trackingNumber }

// Carrier returns the carrier name.
func (c *AddTrackingCommand) Carrier() string { return c.carrier }

// ActorID returns who attached the tracking details.
func (c *AddTrackingCommand) ActorID() kernel.UUID { return c.actorID }

// Validate ensures the command was created through the constructor.
func (c *AddTrackingCommand) Validate() error {
	return c.guard.Validate(
		ErrAddTrackingCommandIsNotConstructed,
	)
}
