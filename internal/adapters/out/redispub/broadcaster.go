// Package redispub implements the realtime broadcast gateway on Redis
// pub/sub. Every order id has its own channel, so clients subscribe to just
// the order they are watching.
package redispub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/domain/model/order"

	"github.com/redis/go-redis/v9"
)

// eventPayload is the wire shape pushed onto the realtime channel.
type eventPayload struct {
	OrderID        string    `json:"orderId"`
	SubOrderID     string    `json:"subOrderId,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Message        string    `json:"message"`
}

// ChannelFor returns the pub/sub channel name for one order id.
func ChannelFor(orderID string) string {
	return fmt.Sprintf("orders:%s:events", orderID)
}

// RedisBroadcaster publishes status events over Redis pub/sub.
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster creates a broadcaster over the given client.
func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

// Broadcast publishes the event on the parent order's channel, and on the
// sub-order's own channel when the event belongs to one, so subscribers by
// either id see it.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, event order.StatusEvent) error {
	payload := eventPayload{
		OrderID:        event.OrderID.String(),
		Status:         event.New.String(),
		PreviousStatus: event.Previous.String(),
		TrackingNumber: event.TrackingNumber,
		Carrier:        event.Carrier,
		Timestamp:      event.OccurredAt,
		Message:        events.MessageFor(event),
	}
	if event.SubOrderID != nil {
		payload.SubOrderID = event.SubOrderID.String()
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err = b.client.Publish(ctx, ChannelFor(payload.OrderID), raw).Err(); err != nil {
		return err
	}
	if payload.SubOrderID != "" {
		return b.client.Publish(ctx, ChannelFor(payload.SubOrderID), raw).Err()
	}
	return nil
}

// NoopBroadcaster drops every event. Used in tests and in configurations
// without a Redis instance.
type NoopBroadcaster struct{}

// Broadcast does nothing.
func (NoopBroadcaster) Broadcast(_ context.Context, _ order.StatusEvent) error {
	return nil
}
