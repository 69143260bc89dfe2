package http

import (
	"errors"
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// UpdateStatusRequest is the body of PATCH /api/v1/orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// AddTrackingRequest is the body of PATCH /api/v1/orders/:id/tracking.
type AddTrackingRequest struct {
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

// SettlementResponse summarizes one settlement pass.
type SettlementResponse struct {
	PromotedCount int64 `json:"promotedCount"`
	TotalNet      int64 `json:"totalNet"`
}

// OrderItem is one basket line on the wire.
type OrderItem struct {
	ProductID string `json:"productId"`
	SellerID  string `json:"sellerId,omitempty"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
}

// SubOrder is one seller partition on the wire.
type SubOrder struct {
	ID             string `json:"id"`
	SellerID       string `json:"sellerId"`
	Subtotal       int64  `json:"subtotal"`
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
}

// TimelineEvent is one audit trail entry on the wire.
type TimelineEvent struct {
	ID             string    `json:"id"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ActorID        string    `json:"actorId"`
	Note           string    `json:"note,omitempty"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// OrderDetail is the full order or sub-order view on the wire.
type OrderDetail struct {
	Source            string          `json:"source"`
	ID                string          `json:"id"`
	BuyerID           string          `json:"buyerId"`
	Amount            int64           `json:"amount"`
	Status            string          `json:"status"`
	ShippingAddress   string          `json:"shippingAddress"`
	PaymentRef        string          `json:"paymentRef"`
	TrackingNumber    string          `json:"trackingNumber,omitempty"`
	Carrier           string          `json:"carrier,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	ShippedAt         *time.Time      `json:"shippedAt,omitempty"`
	DeliveredAt       *time.Time      `json:"deliveredAt,omitempty"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	Items             []OrderItem     `json:"items"`
	SubOrders         []SubOrder      `json:"subOrders"`
	Timeline          []TimelineEvent `json:"timeline"`
}

// OrderSummary is one listing row on the wire.
type OrderSummary struct {
	ID             string    `json:"id"`
	BuyerID        string    `json:"buyerId"`
	Amount         int64     `json:"amount"`
	Status         string    `json:"status"`
	PaymentRef     string    `json:"paymentRef"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OrderList is one listing page on the wire.
type OrderList struct {
	Orders []OrderSummary `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

func toOrderDetail(response queries.GetOrderQueryResponse) OrderDetail {
	items := make([]OrderItem, len(response.Items))
	for i, item := range response.Items {
		items[i] = OrderItem{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}

	subOrders := make([]SubOrder, len(response.SubOrders))
	for i, sub := range response.SubOrders {
		subOrders[i] = SubOrder{
			ID:             sub.ID,
			SellerID:       sub.SellerID,
			Subtotal:       sub.Subtotal,
			Status:         sub.Status,
			TrackingNumber: sub.TrackingNumber,
			Carrier:        sub.Carrier,
		}
	}

	return OrderDetail{
		Source:            response.Source,
		ID:                response.ID,
		BuyerID:           response.BuyerID,
		Amount:            response.Amount,
		Status:            response.Status,
		ShippingAddress:   response.ShippingAddress,
		PaymentRef:        response.PaymentRef,
		TrackingNumber:    response.TrackingNumber,
		Carrier:           response.Carrier,
		CreatedAt:         response.CreatedAt,
		ShippedAt:         response.ShippedAt,
		DeliveredAt:       response.DeliveredAt,
		EstimatedDelivery: response.EstimatedDelivery,
		Items:             items,
		SubOrders:         subOrders,
		Timeline:          toTimeline(response.Timeline),
	}
}

func toTimeline(events []queries.TimelineEventResponse) []TimelineEvent {
	timeline := make([]TimelineEvent, len(events))
	for i, event := range events {
		timeline[i] = TimelineEvent{
			ID:             event.ID,
			PreviousStatus: event.PreviousStatus,
			NewStatus:      event.NewStatus,
			ActorID:        event.ActorID,
			Note:           event.Note,
			TrackingNumber: event.TrackingNumber,
			Carrier:        event.Carrier,
			OccurredAt:     event.OccurredAt,
		}
	}
	return timeline
}

func toOrderList(response queries.ListOrdersQueryResponse) OrderList {
	orders := make([]OrderSummary, len(response.Orders))
	for i, summary := range response.Orders {
		orders[i] = OrderSummary{
			ID:             summary.ID,
			BuyerID:        summary.BuyerID,
			Amount:         summary.Amount,
			Status:         summary.Status,
			PaymentRef:     summary.PaymentRef,
			TrackingNumber: summary.TrackingNumber,
			CreatedAt:      summary.CreatedAt,
		}
	}
	return OrderList{
		Orders: orders,
		Total:  response.Total,
		Page:   response.Page,
		Limit:  response.Limit,
	}
}

// writeError maps application errors onto HTTP status codes. Anything not
// recognized becomes a generic 500 so internal details never reach clients.
func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return writeStatus(ctx, http.StatusNotFound, "Object not found")
	case errors.Is(err, errs.ErrForbidden):
		return writeStatus(ctx, http.StatusForbidden, "Access denied")
	case errors.Is(err, errs.ErrConflict):
		return writeStatus(ctx, http.StatusConflict, "Conflicting state")
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return writeStatus(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func writeStatus(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
