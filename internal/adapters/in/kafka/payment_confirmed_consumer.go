// Package kafka consumes integration events from the payment service.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

// paymentConfirmedPayload is the wire shape of the payment service's
// confirmation event.
type paymentConfirmedPayload struct {
	OrderID    string `json:"orderId"`
	BuyerID    string `json:"buyerId"`
	PaymentRef string `json:"paymentRef"`
}

// PaymentConfirmedConsumer reads payment confirmations and moves the paid
// order to confirmed, which in turn triggers the commission split.
type PaymentConfirmedConsumer struct {
	reader  *kafka.Reader
	handler commands.UpdateOrderStatusCommandHandler
	logger  *slog.Logger
}

// NewPaymentConfirmedConsumer creates a consumer in the given group.
func NewPaymentConfirmedConsumer(
	brokers []string,
	group string,
	topic string,
	handler commands.UpdateOrderStatusCommandHandler,
	logger *slog.Logger,
) *PaymentConfirmedConsumer {
	return &PaymentConfirmedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  group,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		handler: handler,
		logger:  logger.With("component", "payment_confirmed_consumer"),
	}
}

// Start consumes until the context is cancelled. Malformed messages and
// unknown orders are logged and skipped so one bad message cannot wedge the
// partition; other handler errors are logged and the message is retried on
// the next delivery.
func (c *PaymentConfirmedConsumer) Start(ctx context.Context) error {
	defer c.reader.Close()

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err = c.process(ctx, message); err != nil {
			c.logger.ErrorContext(ctx, "Failed to process payment confirmation",
				"error", err, "offset", message.Offset)
		}
	}
}

func (c *PaymentConfirmedConsumer) process(ctx context.Context, message kafka.Message) error {
	var payload paymentConfirmedPayload
	if err := json.Unmarshal(message.Value, &payload); err != nil {
		c.logger.WarnContext(ctx, "Skipping malformed payment confirmation",
			"error", err, "offset", message.Offset)
		return nil
	}

	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		c.logger.WarnContext(ctx, "Skipping payment confirmation with bad order id",
			"orderId", payload.OrderID, "offset", message.Offset)
		return nil
	}

	actorID, err := kernel.UUIDFromString(payload.BuyerID)
	if err != nil {
		c.logger.WarnContext(ctx, "Skipping payment confirmation with bad buyer id",
			"buyerId", payload.BuyerID, "offset", message.Offset)
		return nil
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(
		orderID, order.StatusConfirmed, actorID, "Payment confirmed: "+payload.PaymentRef)
	if err != nil {
		return err
	}

	err = c.handler.Handle(ctx, cmd)
	if errors.Is(err, errs.ErrObjectNotFound) {
		c.logger.WarnContext(ctx, "Payment confirmation for unknown order",
			"orderId", payload.OrderID)
		return nil
	}
	return err
}
