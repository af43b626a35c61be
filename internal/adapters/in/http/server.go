package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type PlaceOrderHandler interface {
	Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (kernel.UUID, error)
}

type TransitionOrderHandler interface {
	Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (order.Status, error)
}

type InitiateReturnHandler interface {
	Handle(ctx context.Context, cmd commands.InitiateReturnCommand) (kernel.UUID, error)
}

type AdvanceReturnHandler interface {
	Handle(ctx context.Context, cmd commands.AdvanceReturnCommand) (shipment.Status, error)
}

type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error)
}

type ListOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error)
}

type GetOrderStatusHandler interface {
	Handle(ctx context.Context, query queries.GetOrderStatusQuery) (*queries.GetOrderStatusQueryResponse, error)
}

type GetShipmentHandler interface {
	Handle(ctx context.Context, query queries.GetShipmentQuery) (*queries.GetShipmentQueryResponse, error)
}

type ListWarehousesHandler interface {
	Handle(ctx context.Context, query queries.ListWarehousesQuery) ([]queries.WarehouseView, error)
}

// Handlers groups the use cases the HTTP adapter dispatches to.
type Handlers struct {
	// Command handlers
	PlaceOrder      PlaceOrderHandler
	TransitionOrder TransitionOrderHandler
	InitiateReturn  InitiateReturnHandler
	AdvanceReturn   AdvanceReturnHandler

	// Query handlers
	GetOrder       GetOrderHandler
	ListOrders     ListOrdersHandler
	GetOrderStatus GetOrderStatusHandler
	GetShipment    GetShipmentHandler
	ListWarehouses ListWarehousesHandler
}

// Server implements ServerInterface by translating requests into commands
// and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{h: handlers, logger: logger.With("component", "HTTPServer")}
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromGoogle(req.CustomerId)
	if err != nil {
		return s.fail(ctx, err)
	}
	lines := make([]services.Line, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := kernel.UUIDFromGoogle(item.ProductId)
		if err != nil {
			return s.fail(ctx, err)
		}
		lines = append(lines, services.Line{ProductID: productID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewPlaceOrderCommand(customerID, lines)
	if err != nil {
		return s.fail(ctx, err)
	}

	orderID, err := s.h.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{Id: orderID.Value()})
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	var (
		filter queries.OrderFilter
		err    error
	)
	for _, p := range []struct {
		src *openapi_types.UUID
		dst **kernel.UUID
	}{
		{params.CustomerId, &filter.CustomerID},
		{params.VendorId, &filter.VendorID},
		{params.LogisticsTeamId, &filter.LogisticsTeamID},
		{params.DeliveryAgentId, &filter.DeliveryAgentID},
	} {
		if *p.dst, err = kernel.UUIDPtrFromGoogle(p.src); err != nil {
			return s.fail(ctx, err)
		}
	}
	if params.Status != nil {
		status, err := order.StatusFromString(*params.Status)
		if err != nil {
			return s.fail(ctx, err)
		}
		filter.Status = &status
	}
	if params.Limit != nil {
		filter.Limit = *params.Limit
	}
	if params.Offset != nil {
		filter.Offset = *params.Offset
	}

	query, err := queries.NewListOrdersQuery(filter)
	if err != nil {
		return s.fail(ctx, err)
	}

	orders, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]OrderSummary, len(orders))
	for i, o := range orders {
		response[i] = OrderSummary{
			Id:         o.ID.Value(),
			CustomerId: o.CustomerID.Value(),
			VendorId:   o.VendorID.Value(),
			Status:     o.Status,
			IsReturned: o.IsReturned,
			TotalPrice: o.TotalPrice,
			PlacedAt:   o.PlacedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			ProductId: item.ProductID.Value(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}

	return ctx.JSON(http.StatusOK, Order{
		Id:              o.ID.Value(),
		CustomerId:      o.CustomerID.Value(),
		VendorId:        o.VendorID.Value(),
		LogisticsTeamId: kernel.ValuePtr(o.LogisticsTeamID),
		DeliveryAgentId: kernel.ValuePtr(o.DeliveryAgentID),
		WarehouseId:     kernel.ValuePtr(o.WarehouseID),
		Status:          o.Status,
		IsReturned:      o.IsReturned,
		TotalPrice:      o.TotalPrice,
		PlacedAt:        o.PlacedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           items,
	})
}

// GetOrderStatus handles GET /api/v1/orders/{orderId}/status.
func (s *Server) GetOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderStatusQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.h.GetOrderStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderStatusView{
		OrderId:    status.OrderID.Value(),
		Status:     status.Status,
		IsReturned: status.IsReturned,
		UpdatedAt:  status.UpdatedAt,
	})
}

// GetShipment handles GET /api/v1/orders/{orderId}/shipment.
func (s *Server) GetShipment(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	tracking, err := s.h.GetShipment.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := ShipmentTracking{
		OrderId:   tracking.OrderID.Value(),
		Shipments: make([]Shipment, len(tracking.Shipments)),
		History:   make([]ShipmentEvent, len(tracking.History)),
	}
	for i, sh := range tracking.Shipments {
		response.Shipments[i] = toShipment(sh)
	}
	if tracking.Current != nil {
		current := toShipment(*tracking.Current)
		response.Current = &current
	}
	for i, t := range tracking.History {
		response.History[i] = ShipmentEvent{ShipmentId: t.ShipmentID, From: t.From, To: t.To, OccurredAt: t.OccurredAt}
	}
	return ctx.JSON(http.StatusOK, response)
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var req TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	actorID, err := kernel.UUIDFromGoogle(req.ActorId)
	if err != nil {
		return s.fail(ctx, err)
	}
	op, err := services.OperationFromString(req.Operation)
	if err != nil {
		return s.fail(ctx, err)
	}
	agentID, err := kernel.UUIDPtrFromGoogle(req.DeliveryAgentId)
	if err != nil {
		return s.fail(ctx, err)
	}
	warehouseID, err := kernel.UUIDPtrFromGoogle(req.WarehouseId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(id, actorID, op, agentID, warehouseID)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.h.TransitionOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, StatusResponse{Status: status.String()})
}

// InitiateReturn handles POST /api/v1/orders/{orderId}/returns.
func (s *Server) InitiateReturn(ctx echo.Context, orderId openapi_types.UUID) error {
	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	actorID, err := kernel.UUIDFromGoogle(req.ActorId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewInitiateReturnCommand(id, actorID)
	if err != nil {
		return s.fail(ctx, err)
	}

	shipmentID, err := s.h.InitiateReturn.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, ReturnCreated{ShipmentId: shipmentID.Value()})
}

// AdvanceReturn handles POST /api/v1/shipments/{shipmentId}/advance.
func (s *Server) AdvanceReturn(ctx echo.Context, shipmentId openapi_types.UUID) error {
	var req ActorRequest
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := kernel.UUIDFromGoogle(shipmentId)
	if err != nil {
		return s.fail(ctx, err)
	}
	actorID, err := kernel.UUIDFromGoogle(req.ActorId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAdvanceReturnCommand(id, actorID)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.h.AdvanceReturn.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, StatusResponse{Status: status.String()})
}

// ListWarehouses handles GET /api/v1/warehouses.
func (s *Server) ListWarehouses(ctx echo.Context) error {
	warehouses, err := s.h.ListWarehouses.Handle(ctx.Request().Context(), queries.NewListWarehousesQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Warehouse, len(warehouses))
	for i, w := range warehouses {
		response[i] = Warehouse{Id: w.ID.Value(), Name: w.Name, Location: w.Location, Capacity: w.Capacity}
	}
	return ctx.JSON(http.StatusOK, response)
}

func toShipment(v queries.ShipmentView) Shipment {
	return Shipment{
		Id:             v.ID.Value(),
		WarehouseId:    kernel.ValuePtr(v.WarehouseID),
		Status:         v.Status,
		TrackingNumber: v.TrackingNumber,
		IsReturn:       v.IsReturn,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
