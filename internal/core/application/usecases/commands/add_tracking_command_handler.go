package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// AddTrackingCommandHandler records tracking details on an order or
// sub-order. The status stays put; the audit trail gets a tracking event and
// observers are notified the same way as for a status change.
type AddTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	history    ports.StatusEventRepository
	dispatcher events.Dispatcher
	logger     *slog.Logger
}

// NewAddTrackingCommandHandler creates a handler for tracking updates.
func NewAddTrackingCommandHandler(
	uowFactory OrderUoWFactory,
	history ports.StatusEventRepository,
	dispatcher events.Dispatcher,
	logger *slog.Logger,
) AddTrackingCommandHandler {
	return AddTrackingCommandHandler{
		uowFactory: uowFactory,
		history:    history,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes the tracking command.
func (h AddTrackingCommandHandler) Handle(ctx context.Context, command AddTrackingCommand) error {
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
	var change order.TrackingChange

	switch lookup.Source {
	case order.SourceSubOrders:
		change, err = lookup.SubOrder.SetTracking(
			command.TrackingNumber(), command.Carrier(), command.ActorID(), now)
		if err != nil {
			return err
		}
		if err = uow.SubOrderRepository().Update(ctx, lookup.SubOrder); err != nil {
			return err
		}
	default:
		change, err = lookup.Order.SetTracking(
			command.TrackingNumber(), command.Carrier(), command.ActorID(), now)
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

	event := order.NewTrackingEvent(change)
	if err = h.history.Append(ctx, event); err != nil {
		h.logger.Warn("history append failed",
			"orderId", event.OrderID.String(),
			"trackingNumber", event.TrackingNumber,
			"error", err)
	}

	h.dispatcher.Dispatch(ctx, []order.StatusEvent{event})

	return nil
}
