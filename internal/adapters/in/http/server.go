// Package http exposes the order lifecycle over a REST API.
//
// The caller's identity arrives in the X-User-Id and X-User-Role headers,
// set by the gateway in front of this service. The handlers trust those
// headers; authentication itself happens upstream.
package http

import (
	"net/http"
	"strconv"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	updateStatusHandler  commands.UpdateOrderStatusCommandHandler
	addTrackingHandler   commands.AddTrackingCommandHandler
	runSettlementHandler commands.RunSettlementPassCommandHandler

	// Query handlers
	getOrderHandler    queries.GetOrderQueryHandler
	getTimelineHandler queries.GetOrderTimelineQueryHandler
	listOrdersHandler  queries.ListOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	updateStatusHandler commands.UpdateOrderStatusCommandHandler,
	addTrackingHandler commands.AddTrackingCommandHandler,
	runSettlementHandler commands.RunSettlementPassCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getTimelineHandler queries.GetOrderTimelineQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
) *Server {
	return &Server{
		updateStatusHandler:  updateStatusHandler,
		addTrackingHandler:   addTrackingHandler,
		runSettlementHandler: runSettlementHandler,
		getOrderHandler:      getOrderHandler,
		getTimelineHandler:   getTimelineHandler,
		listOrdersHandler:    listOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/timeline", s.GetOrderTimeline)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.PATCH("/orders/:id/tracking", s.AddTracking)
	api.POST("/settlement/run", s.RunSettlement)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order or sub-order.
func (s *Server) GetOrder(ctx echo.Context) error {
	actorID, role, err := identity(ctx)
	if err != nil {
		return writeStatus(ctx, http.StatusUnauthorized, "Missing or invalid identity headers")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeStatus(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID, actorID, role)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderDetail(response))
}

// GetOrderTimeline handles GET /api/v1/orders/:id/timeline - retrieves the
// status history of an order.
func (s *Server) GetOrderTimeline(ctx echo.Context) error {
	actorID, role, err := identity(ctx)
	if err != nil {
		return writeStatus(ctx, http.StatusUnauthorized, "Missing or invalid identity headers")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeStatus(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderTimelineQuery(orderID, actorID, role)
	if err != nil {
		return writeError(ctx, err)
	}

	timeline, err := s.getTimelineHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toTimeline(timeline))
}

// ListOrders handles GET /api/v1/orders - lists orders visible to the caller
// with optional status filter, search and paging.
func (s *Server) ListOrders(ctx echo.Context) error {
	actorID, role, err := identity(ctx)
	if err != nil {
		return writeStatus(ctx, http.StatusUnauthorized, "Missing or invalid identity headers")
	}

	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	query, err := queries.NewListOrdersQuery(
		actorID, role,
		ctx.QueryParam("status"), ctx.QueryParam("search"),
		page, limit)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderList(response))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves an order
// or sub-order to a new status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	actorID, _, err := identity(ctx)
	if err != nil {
		return writeStatus(ctx, http.StatusUnauthorized, "Missing or invalid identity headers")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeStatus(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var body UpdateStatusRequest
	if err = ctx.Bind(&body); err != nil {
		return writeStatus(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if body.Status == "" {
		return writeStatus(ctx, http.StatusBadRequest, "Field 'status' is required")
	}

	newStatus, err := order.StatusFromString(body.Status)
	if err != nil {
		return writeStatus(ctx, http.StatusBadRequest, "Unknown status: "+body.Status)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, newStatus, actorID, body.Notes)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.updateStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AddTracking handles PATCH /api/v1/orders/:id/tracking - records carrier
// tracking details without changing the status.
func (s *Server) AddTracking(ctx echo.Context) error {
	actorID, _, err := identity(ctx)
	if err != nil {
		return writeStatus(ctx, http.StatusUnauthorized, "Missing or invalid identity headers")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeStatus(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var body AddTrackingRequest
	if err = ctx.Bind(&body); err != nil {
		return writeStatus(ctx, http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewAddTrackingCommand(orderID, body.TrackingNumber, body.Carrier, actorID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.addTrackingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RunSettlement handles POST /api/v1/settlement/run - triggers a settlement
// pass on demand. Only elevated roles may call it.
func (s *Server) RunSettlement(ctx echo.Context) error {
	_, role, err := identity(ctx)
	if err != nil {
		return writeStatus(ctx, http.StatusUnauthorized, "Missing or invalid identity headers")
	}
	if !role.IsElevated() {
		return writeStatus(ctx, http.StatusForbidden, "Access denied")
	}

	cmd := commands.NewRunSettlementPassCommand()
	batch, err := s.runSettlementHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, SettlementResponse{
		PromotedCount: batch.PromotedCount,
		TotalNet:      batch.TotalNet.Int64(),
	})
}

// identity reads the caller's id and role from the trusted gateway headers.
func identity(ctx echo.Context) (kernel.UUID, kernel.Role, error) {
	actorID, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerUserID))
	if err != nil {
		return kernel.UUID{}, kernel.RoleUnknown, err
	}

	role, err := kernel.RoleFromString(ctx.Request().Header.Get(headerUserRole))
	if err != nil {
		return kernel.UUID{}, kernel.RoleUnknown, err
	}

	return actorID, role, nil
}
