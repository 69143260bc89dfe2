package commands

import (
	"context"
	"time"

	"marketplace/internal/core/ports"
)

// RunSettlementPassCommandHandler promotes due pending earnings to available.
// The promotion happens in one predicate-scoped statement, so overlapping
// passes are harmless: rows a concurrent pass already promoted no longer
// match the pending predicate and are skipped.
type RunSettlementPassCommandHandler struct {
	uowFactory EarningUoWFactory
}

// NewRunSettlementPassCommandHandler creates a handler for settlement passes.
func NewRunSettlementPassCommandHandler(uowFactory EarningUoWFactory) RunSettlementPassCommandHandler {
	return RunSettlementPassCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle runs one pass and reports how many earnings were promoted and their
// combined net amount.
func (h RunSettlementPassCommandHandler) Handle(
	ctx context.Context,
	command RunSettlementPassCommand,
) (ports.SettlementBatch, error) {
	if err := command.Validate(); err != nil {
		return ports.SettlementBatch{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.SettlementBatch{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batch, err := uow.EarningRepository().PromoteDue(ctx, time.Now().UTC())
	if err != nil {
		return ports.SettlementBatch{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ports.SettlementBatch{}, err
	}

	return batch, nil
}
