// Package events turns the change records produced by order aggregates into
// observer-facing side effects. Aggregates stay pure and return what changed;
// the dispatcher owns the best-effort delivery of broadcasts and
// notifications after the owning transaction commits.
package events

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// Notification channels.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
)

// ChannelsFor returns the notification fan-out for a status milestone.
// Fulfillment milestones the buyer is waiting on escalate to email; every
// other change stays in-app only.
func ChannelsFor(status order.Status) []string {
	switch status {
	case order.StatusShipped, order.StatusOutForDelivery, order.StatusDelivered:
		return []string{ChannelInApp, ChannelEmail}
	default:
		return []string{ChannelInApp}
	}
}

var statusMessages = map[order.Status]string{
	order.StatusPending:        "Your order has been placed",
	order.StatusConfirmed:      "Your order has been confirmed",
	order.StatusProcessing:     "Your order is being processed",
	order.StatusShipped:        "Your order has shipped",
	order.StatusOutForDelivery: "Your order is out for delivery",
	order.StatusDelivered:      "Your order has been delivered",
	order.StatusCancelled:      "Your order has been cancelled",
	order.StatusRefunded:       "Your order has been refunded",
}

// MessageFor returns the buyer-facing text for an event. Tracking updates
// keep the status unchanged and get their own wording.
func MessageFor(event order.StatusEvent) string {
	if event.Previous == event.New && event.TrackingNumber != "" {
		return "Tracking information has been updated for your order"
	}
	if msg, ok := statusMessages[event.New]; ok {
		return msg
	}
	return "Your order has been updated"
}

// Dispatcher delivers status events to the realtime channel and the
// notification pipeline. Every delivery is best effort: failures are logged
// with the order id and swallowed, because the status change that produced
// the event is already committed and authoritative.
type Dispatcher struct {
	broadcaster ports.Broadcaster
	notifier    ports.Notifier
	logger      *slog.Logger
}

// NewDispatcher creates a dispatcher over the given delivery ports.
func NewDispatcher(broadcaster ports.Broadcaster, notifier ports.Notifier, logger *slog.Logger) Dispatcher {
	return Dispatcher{
		broadcaster: broadcaster,
		notifier:    notifier,
		logger:      logger,
	}
}

// Dispatch fans out the given events in order. It never returns an error;
// by the time it runs there is nothing left to roll back.
func (d Dispatcher) Dispatch(ctx context.Context, events []order.StatusEvent) {
	for _, event := range events {
		if err := d.broadcaster.Broadcast(ctx, event); err != nil {
			d.logger.Warn("broadcast failed",
				"orderId", event.OrderID.String(),
				"status", event.New.String(),
				"error", err)
		}

		if err := d.notifier.Notify(ctx, d.buildNotification(event)); err != nil {
			d.logger.Warn("notification dispatch failed",
				"orderId", event.OrderID.String(),
				"status", event.New.String(),
				"error", err)
		}
	}
}

func (d Dispatcher) buildNotification(event order.StatusEvent) ports.Notification {
	notification := ports.Notification{
		OrderID:    event.OrderID.String(),
		Status:     event.New.String(),
		Channels:   ChannelsFor(event.New),
		Message:    MessageFor(event),
		OccurredAt: event.OccurredAt.Unix(),
	}
	if event.SubOrderID != nil {
		notification.SubOrderID = event.SubOrderID.String()
	}
	return notification
}
