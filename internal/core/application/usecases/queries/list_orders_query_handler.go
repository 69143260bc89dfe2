package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads the paginated order list. Filters compose in
// SQL; the role scope is just one more predicate when the caller is a
// customer.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for order list queries.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle executes the list query, newest orders first.
func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	where := "1 = 1"
	args := make([]any, 0, 4)

	if !query.Role().IsElevated() {
		where += " AND buyer_id = ?"
		args = append(args, query.ActorID().Bytes())
	}
	if status := query.Status(); status != nil {
		where += " AND status = ?"
		args = append(args, int(*status))
	}
	if search := query.Search(); search != "" {
		where += " AND (payment_ref ILIKE ? OR shipping_address ILIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	resp := ListOrdersQueryResponse{
		Orders: make([]OrderSummaryResponse, 0),
		Page:   query.Page(),
		Limit:  query.Limit(),
	}

	err := h.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM orders WHERE `+where, args...,
	).Row().Scan(&resp.Total)
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	offset := (query.Page() - 1) * query.Limit()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			amount,
			status,
			payment_ref,
			tracking_number,
			created_at
		FROM orders
		WHERE `+where+`
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, append(args, query.Limit(), offset)...).Rows()
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var summary OrderSummaryResponse
		var id, buyerID uuid.UUID
		var status int
		var createdAt time.Time

		if err = rows.Scan(&id, &buyerID, &summary.Amount, &status,
			&summary.PaymentRef, &summary.TrackingNumber, &createdAt); err != nil {
			return ListOrdersQueryResponse{}, err
		}

		summary.ID = id.String()
		summary.BuyerID = buyerID.String()
		summary.Status = order.Status(status).String()
		summary.CreatedAt = createdAt
		resp.Orders = append(resp.Orders, summary)
	}

	if err = rows.Err(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	return resp, nil
}
