// Package kafkanotify hands notifications to the delivery pipeline over
// Kafka. The downstream notification service owns the actual in-app and
// email fan-out; this adapter only produces the structured payload.
package kafkanotify

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// notificationPayload is the wire shape produced to the notification topic.
type notificationPayload struct {
	OrderID    string   `json:"orderId"`
	SubOrderID string   `json:"subOrderId,omitempty"`
	Status     string   `json:"status"`
	Channels   []string `json:"channels"`
	Message    string   `json:"message"`
	OccurredAt int64    `json:"occurredAt"`
}

// KafkaNotifier implements the Notifier port with a kafka-go writer.
// Messages are keyed by order id so one order's notifications stay ordered
// within a partition.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier creates a notifier producing to the given topic.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// Notify produces one notification message.
func (n *KafkaNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	raw, err := json.Marshal(notificationPayload{
		OrderID:    notification.OrderID,
		SubOrderID: notification.SubOrderID,
		Status:     notification.Status,
		Channels:   notification.Channels,
		Message:    notification.Message,
		OccurredAt: notification.OccurredAt,
	})
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(notification.OrderID),
		Value: raw,
		Time:  time.Now(),
	})
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NoopNotifier drops every notification. Used in tests and in
// configurations without a broker.
type NoopNotifier struct{}

// Notify does nothing.
func (NoopNotifier) Notify(_ context.Context, _ ports.Notification) error {
	return nil
}
