package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrRunSettlementPassCommandIsNotConstructed = errors.New(
	"RunSettlementPassCommand must be created via NewRunSettlementPassCommand constructor",
)

// RunSettlementPassCommand triggers one settlement pass: every pending
// earning whose holding window has elapsed becomes available for payout.
// Parameterless; the pass computes its own cutoff from the clock.
type RunSettlementPassCommand struct {
	guard guard.ConstructorGuard
}

// NewRunSettlementPassCommand creates a new settlement pass trigger.
func NewRunSettlementPassCommand() RunSettlementPassCommand {
	return RunSettlementPassCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *RunSettlementPassCommand) Validate() error {
	return c.guard.Validate(
		ErrRunSettlementPassCommandIsNotConstructed,
	)
}
