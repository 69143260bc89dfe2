package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// UpdateOrderStatusCommandHandler orchestrates a status transition.
//
// The primary write (the status itself) commits first and is authoritative.
// Everything after the commit is best effort: the history append, the
// realtime broadcast and the notification all log failures and move on,
// because at that point there is no transaction left to roll back. When a
// parent order reaches the paid milestone the handler also issues the
// commission split, whose failure is likewise logged, not propagated; the
// split can be re-issued later since it is idempotent.
type UpdateOrderStatusCommandHandler struct {
	uowFactory   OrderUoWFactory
	history      ports.StatusEventRepository
	dispatcher   events.Dispatcher
	splitHandler SplitOrderCommandHandler
	policy       order.TransitionPolicy
	logger       *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
// The policy decides whether arbitrary jumps between statuses are allowed or
// only the canonical progression.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	history ports.StatusEventRepository,
	dispatcher events.Dispatcher,
	splitHandler SplitOrderCommandHandler,
	policy order.TransitionPolicy,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:   uowFactory,
		history:      history,
		dispatcher:   dispatcher,
		splitHandler: splitHandler,
		policy:       policy,
		logger:       logger,
	}
}

// Handle processes the status update command. The id resolves against parent
// orders first, then sub-orders, so sellers can progress their own shipment
// without touching the parent.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, command UpdateOrderStatusCommand) error {
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

	orderRepo := uow.OrderRepository()
	lookup, err := orderRepo.Lookup(ctx, command.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var change order.StatusChange

	switch lookup.Source {
	case order.SourceSubOrders:
		change, err = lookup.SubOrder.ChangeStatus(
			command.NewStatus(), command.ActorID(), command.Note(), h.policy, now)
		if err != nil {
			return err
		}
		if err = uow.SubOrderRepository().Update(ctx, lookup.SubOrder); err != nil {
			return err
		}
	default:
		change, err = lookup.Order.ChangeStatus(
			command.NewStatus(), command.ActorID(), command.Note(), h.policy, now)
		if err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, lookup.Order); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := order.NewStatusEvent(change)
	if err = h.history.Append(ctx, event); err != nil {
		h.logger.Warn("history append failed",
			"orderId", event.OrderID.String(),
			"status", event.New.String(),
			"error", err)
	}

	h.dispatcher.Dispatch(ctx, []order.StatusEvent{event})

	if lookup.Source == order.SourceOrders && command.NewStatus() == order.StatusConfirmed {
		h.splitConfirmedOrder(ctx, command)
	}

	return nil
}

func (h UpdateOrderStatusCommandHandler) splitConfirmedOrder(ctx context.Context, command UpdateOrderStatusCommand) {
	splitCommand, err := NewSplitOrderCommand(command.OrderID())
	if err == nil {
		err = h.splitHandler.Handle(ctx, splitCommand)
	}
	if err != nil {
		h.logger.Error("commission split failed",
			"orderId", command.OrderID().String(),
			"error", err)
	}
}
