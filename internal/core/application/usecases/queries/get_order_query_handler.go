package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// estimatedTransitDays is the delivery allowance added to the checkout date
// when computing the estimate shown on the order detail.
const estimatedTransitDays = 5

// GetOrderQueryHandler resolves an id against parent orders and seller
// sub-orders, parent orders winning when both match, and assembles the detail
// view with items, sub-order breakdown and the status timeline.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the detail query. Returns errs.ErrObjectNotFound when the
// id matches neither table and errs.ErrForbidden when a customer asks for an
// order they did not buy.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	source, err := h.resolveSource(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var resp GetOrderQueryResponse
	switch source {
	case order.SourceSubOrders:
		resp, err = h.loadSubOrder(ctx, query)
	default:
		resp, err = h.loadParent(ctx, query)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Timeline, err = loadTimeline(ctx, h.db, resp.orderUUID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

// resolveSource tags which table the id lives in, the same union the write
// path gets from order.Lookup.
func (h GetOrderQueryHandler) resolveSource(ctx context.Context, id kernel.UUID) (order.LookupSource, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT source FROM (
			SELECT ? AS source FROM orders WHERE id = ?
			UNION ALL
			SELECT ? FROM sub_orders WHERE id = ?
		) matches
		ORDER BY source
		LIMIT 1
	`, int(order.SourceOrders), id.Bytes(), int(order.SourceSubOrders), id.Bytes()).Row()

	var source int
	err := row.Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return 0, err
	}

	return order.LookupSource(source), nil
}

func (h GetOrderQueryHandler) loadParent(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			amount,
			status,
			shipping_address,
			payment_ref,
			tracking_number,
			carrier,
			created_at,
			shipped_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id, buyerID            uuid.UUID
		amount                 int64
		status                 int
		shippingAddr, payRef   string
		trackingNum, carrier   string
		createdAt              time.Time
		shippedAt, deliveredAt sql.NullTime
	)

	err := row.Scan(&id, &buyerID, &amount, &status, &shippingAddr, &payRef,
		&trackingNum, &carrier, &createdAt, &shippedAt, &deliveredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	actorBytes := query.ActorID().Bytes()
	if !query.Role().IsElevated() && buyerID != actorBytes {
		return GetOrderQueryResponse{}, errs.NewForbiddenError(
			query.ActorID().String(), "order belongs to another buyer")
	}

	resp := GetOrderQueryResponse{
		Source:            order.SourceOrders.String(),
		ID:                id.String(),
		BuyerID:           buyerID.String(),
		Amount:            amount,
		Status:            order.Status(status).String(),
		ShippingAddress:   shippingAddr,
		PaymentRef:        payRef,
		TrackingNumber:    trackingNum,
		Carrier:           carrier,
		CreatedAt:         createdAt,
		EstimatedDelivery: createdAt.AddDate(0, 0, estimatedTransitDays),
		orderUUID:         id,
	}
	if shippedAt.Valid {
		t := shippedAt.Time
		resp.ShippedAt = &t
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		resp.DeliveredAt = &t
	}

	resp.Items, err = h.loadItems(ctx, `order_id = ? AND sub_order_id IS NULL`, id)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.SubOrders, err = h.loadSubOrderBreakdown(ctx, id)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadSubOrder(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.order_id,
			s.seller_id,
			s.subtotal,
			s.status,
			s.tracking_number,
			s.carrier,
			s.created_at,
			o.buyer_id,
			o.shipping_address,
			o.payment_ref
		FROM sub_orders s
		JOIN orders o ON o.id = s.order_id
		WHERE s.id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id, orderID, sellerID, buyerID uuid.UUID
		subtotal                       int64
		status                         int
		trackingNum, carrier           string
		createdAt                      time.Time
		shippingAddr, payRef           string
	)

	err := row.Scan(&id, &orderID, &sellerID, &subtotal, &status,
		&trackingNum, &carrier, &createdAt, &buyerID, &shippingAddr, &payRef)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	actorBytes := query.ActorID().Bytes()
	if !query.Role().IsElevated() && buyerID != actorBytes {
		return GetOrderQueryResponse{}, errs.NewForbiddenError(
			query.ActorID().String(), "order belongs to another buyer")
	}

	resp := GetOrderQueryResponse{
		Source:            order.SourceSubOrders.String(),
		ID:                id.String(),
		BuyerID:           buyerID.String(),
		Amount:            subtotal,
		Status:            order.Status(status).String(),
		ShippingAddress:   shippingAddr,
		PaymentRef:        payRef,
		TrackingNumber:    trackingNum,
		Carrier:           carrier,
		CreatedAt:         createdAt,
		EstimatedDelivery: createdAt.AddDate(0, 0, estimatedTransitDays),
		orderUUID:         orderID,
	}

	resp.Items, err = h.loadItems(ctx, `sub_order_id = ?`, id)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, where string, ownerID uuid.UUID) ([]OrderItemResponse, error) {
	items := make([]OrderItemResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			seller_id,
			qty,
			unit_price
		FROM order_items
		WHERE `+where+`
		ORDER BY id
	`, ownerID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemResponse
		var productID uuid.UUID
		var sellerID uuid.NullUUID

		if err = rows.Scan(&productID, &sellerID, &item.Qty, &item.UnitPrice); err != nil {
			return nil, err
		}

		item.ProductID = productID.String()
		if sellerID.Valid {
			item.SellerID = sellerID.UUID.String()
		}
		item.Subtotal = item.UnitPrice * int64(item.Qty)
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) loadSubOrderBreakdown(ctx context.Context, orderID uuid.UUID) ([]SubOrderResponse, error) {
	subOrders := make([]SubOrderResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			seller_id,
			subtotal,
			status,
			tracking_number,
			carrier
		FROM sub_orders
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sub SubOrderResponse
		var id, sellerID uuid.UUID
		var status int

		if err = rows.Scan(&id, &sellerID, &sub.Subtotal, &status,
			&sub.TrackingNumber, &sub.Carrier); err != nil {
			return nil, err
		}

		sub.ID = id.String()
		sub.SellerID = sellerID.String()
		sub.Status = order.Status(status).String()
		subOrders = append(subOrders, sub)
	}

	return subOrders, rows.Err()
}

// loadTimeline reads the full audit trail of one parent order, oldest first.
// Shared with the timeline query handler.
func loadTimeline(ctx context.Context, db *gorm.DB, orderID uuid.UUID) ([]TimelineEventResponse, error) {
	events := make([]TimelineEventResponse, 0)

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			previous_status,
			new_status,
			actor_id,
			note,
			tracking_number,
			carrier,
			occurred_at
		FROM order_status_events
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event TimelineEventResponse
		var id, actorID uuid.UUID
		var previousStatus, newStatus int

		if err = rows.Scan(&id, &previousStatus, &newStatus, &actorID,
			&event.Note, &event.TrackingNumber, &event.Carrier, &event.OccurredAt); err != nil {
			return nil, err
		}

		event.ID = id.String()
		event.ActorID = actorID.String()
		event.PreviousStatus = order.Status(previousStatus).String()
		event.NewStatus = order.Status(newStatus).String()
		events = append(events, event)
	}

	return events, rows.Err()
}
