package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListOrdersQuery retrieves a paginated order list scoped by role: customers
// see only orders they bought, elevated roles see everything. Optional
// filters narrow by status and by a search term matched against the payment
// reference and shipping address.
type ListOrdersQuery struct {
	actorID kernel.UUID
	role    kernel.Role

	status *order.Status
	search string
	page   int
	limit  int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a validated list query. statusFilter is the
// wire value ("shipped") or empty for no filter; unknown values are
// rejected. Page starts at 1; out-of-range paging values fall back to
// defaults instead of failing.
func NewListOrdersQuery(
	actorID kernel.UUID,
	role kernel.Role,
	statusFilter string,
	search string,
	page int,
	limit int,
) (ListOrdersQuery, error) {
	if err := errors.Join(actorID.Validate(), role.Validate()); err != nil {
		return ListOrdersQuery{}, err
	}

	var status *order.Status
	if statusFilter != "" {
		parsed, err := order.StatusFromString(statusFilter)
		if err != nil {
			return ListOrdersQuery{}, err
		}
		status = &parsed
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return ListOrdersQuery{
		actorID: actorID,
		role:    role,
		status:  status,
		search:  search,
		page:    page,
		limit:   limit,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// ActorID returns the requesting user.
func (q ListOrdersQuery) ActorID() kernel.UUID { return q.actorID }

// Role returns the requesting user's role.
func (q ListOrdersQuery) Role() kernel.Role { return q.role }

// Status returns the status filter, nil for none.
func (q ListOrdersQuery) Status() *order.Status { return q.status }

// Search returns the free-text search term, empty for none.
func (q ListOrdersQuery) Search() string { return q.search }

// Page returns the 1-based page number.
func (q ListOrdersQuery) Page() int { return q.page }

// Limit returns the page size.
func (q ListOrdersQuery) Limit() int { return q.limit }

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// OrderSummaryResponse is one row of the order list.
type OrderSummaryResponse struct {
	ID             string
	BuyerID        string
	Amount         int64
	Status         string
	PaymentRef     string
	TrackingNumber string
	CreatedAt      time.Time
}

// ListOrdersQueryResponse is one page of orders plus paging metadata.
type ListOrdersQueryResponse struct {
	Orders []OrderSummaryResponse
	Total  int64
	Page   int
	Limit  int
}
