package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
)

// SplitOrderCommandHandler runs the commission split for one order inside a
// single transaction. Idempotence is an existence check on earnings for the
// order, done inside the same transaction as the inserts: a second run for
// the same order commits nothing and returns success.
type SplitOrderCommandHandler struct {
	uowFactory SplitUoWFactory
	splitter   services.CommissionSplitter
	rate       kernel.CommissionRate
	holdDays   int
}

// NewSplitOrderCommandHandler creates a handler with the platform commission
// rate and the holding window length in days.
func NewSplitOrderCommandHandler(
	uowFactory SplitUoWFactory,
	rate kernel.CommissionRate,
	holdDays int,
) SplitOrderCommandHandler {
	return SplitOrderCommandHandler{
		uowFactory: uowFactory,
		splitter:   services.NewCommissionSplitter(),
		rate:       rate,
		holdDays:   holdDays,
	}
}

// Handle processes the split command. Orders already split and orders whose
// basket has no seller-attributed items both resolve to a silent no-op, so
// the caller never has to care whether there was anything to do.
func (h SplitOrderCommandHandler) Handle(ctx context.Context, command SplitOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	earningRepo := uow.EarningRepository()

	exists, err := earningRepo.ExistsForOrder(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	result, err := h.splitter.Split(ord, h.rate, h.holdDays, time.Now().UTC())
	if errors.Is(err, services.ErrNoAttributableItems) {
		return nil
	}
	if err != nil {
		return err
	}

	subOrderRepo := uow.SubOrderRepository()
	for _, subOrder := range result.SubOrders {
		if err = subOrderRepo.Add(ctx, subOrder); err != nil {
			return err
		}
	}
	for _, sellerEarning := range result.Earnings {
		if err = earningRepo.Add(ctx, sellerEarning); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
