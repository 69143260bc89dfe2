package queries

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTimelineQueryHandler reads the audit trail for one order.
type GetOrderTimelineQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTimelineQueryHandler creates a handler for timeline queries.
func NewGetOrderTimelineQueryHandler(db *gorm.DB) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{db: db}
}

// Handle executes the timeline query, oldest event first.
func (h GetOrderTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTimelineQuery,
) ([]TimelineEventResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orderID, buyerID, err := h.resolveParent(ctx, query.OrderID().Bytes())
	if err != nil {
		return nil, err
	}

	if !query.Role().IsElevated() && buyerID != query.ActorID().Bytes() {
		return nil, errs.NewForbiddenError(
			query.ActorID().String(), "order belongs to another buyer")
	}

	return loadTimeline(ctx, h.db, orderID)
}

// resolveParent maps an id to its parent order id and buyer, whether the id
// names the parent itself or one of its sub-orders.
func (h GetOrderTimelineQueryHandler) resolveParent(
	ctx context.Context,
	id uuid.UUID,
) (uuid.UUID, uuid.UUID, error) {
	var orderID, buyerID uuid.UUID

	row := h.db.WithContext(ctx).Raw(`
		SELECT id, buyer_id FROM orders WHERE id = ?
	`, id).Row()

	err := row.Scan(&orderID, &buyerID)
	if err == nil {
		return orderID, buyerID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.UUID{}, uuid.UUID{}, err
	}

	row = h.db.WithContext(ctx).Raw(`
		SELECT o.id, o.buyer_id
		FROM sub_orders s
		JOIN orders o ON o.id = s.order_id
		WHERE s.id = ?
	`, id).Row()

	err = row.Scan(&orderID, &buyerID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.UUID{}, uuid.UUID{}, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, err
	}

	return orderID, buyerID, nil
}
