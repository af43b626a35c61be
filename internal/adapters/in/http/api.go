package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types of openapi.yaml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CartLine struct {
	ProductId openapi_types.UUID `json:"product_id"`
	Quantity  int                `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerId openapi_types.UUID `json:"customer_id"`
	Items      []CartLine         `json:"items"`
}

type OrderCreated struct {
	Id openapi_types.UUID `json:"id"`
}

type TransitionRequest struct {
	ActorId         openapi_types.UUID  `json:"actor_id"`
	Operation       string              `json:"operation"`
	DeliveryAgentId *openapi_types.UUID `json:"delivery_agent_id,omitempty"`
	WarehouseId     *openapi_types.UUID `json:"warehouse_id,omitempty"`
}

type ActorRequest struct {
	ActorId openapi_types.UUID `json:"actor_id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReturnCreated struct {
	ShipmentId openapi_types.UUID `json:"shipment_id"`
}

type OrderItem struct {
	ProductId openapi_types.UUID `json:"product_id"`
	Quantity  int                `json:"quantity"`
	UnitPrice string             `json:"unit_price"`
	Subtotal  string             `json:"subtotal"`
}

type OrderSummary struct {
	Id         openapi_types.UUID `json:"id"`
	CustomerId openapi_types.UUID `json:"customer_id"`
	VendorId   openapi_types.UUID `json:"vendor_id"`
	Status     string             `json:"status"`
	IsReturned bool               `json:"is_returned"`
	TotalPrice string             `json:"total_price"`
	PlacedAt   time.Time          `json:"placed_at"`
}

type Order struct {
	Id              openapi_types.UUID  `json:"id"`
	CustomerId      openapi_types.UUID  `json:"customer_id"`
	VendorId        openapi_types.UUID  `json:"vendor_id"`
	LogisticsTeamId *openapi_types.UUID `json:"logistics_team_id,omitempty"`
	DeliveryAgentId *openapi_types.UUID `json:"delivery_agent_id,omitempty"`
	WarehouseId     *openapi_types.UUID `json:"warehouse_id,omitempty"`
	Status          string              `json:"status"`
	IsReturned      bool                `json:"is_returned"`
	TotalPrice      string              `json:"total_price"`
	PlacedAt        time.Time           `json:"placed_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []OrderItem         `json:"items"`
}

type OrderStatusView struct {
	OrderId    openapi_types.UUID `json:"order_id"`
	Status     string             `json:"status"`
	IsReturned bool               `json:"is_returned"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type Shipment struct {
	Id             openapi_types.UUID  `json:"id"`
	WarehouseId    *openapi_types.UUID `json:"warehouse_id,omitempty"`
	Status         string              `json:"status"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	IsReturn       bool                `json:"is_return"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type ShipmentEvent struct {
	ShipmentId string    `json:"shipment_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ShipmentTracking struct {
	OrderId   openapi_types.UUID `json:"order_id"`
	Current   *Shipment          `json:"current,omitempty"`
	Shipments []Shipment         `json:"shipments"`
	History   []ShipmentEvent    `json:"history"`
}

type Warehouse struct {
	Id       openapi_types.UUID `json:"id"`
	Name     string             `json:"name"`
	Location string             `json:"location"`
	Capacity int                `json:"capacity"`
}

type ListOrdersParams struct {
	CustomerId      *openapi_types.UUID
	VendorId        *openapi_types.UUID
	LogisticsTeamId *openapi_types.UUID
	DeliveryAgentId *openapi_types.UUID
	Status          *string
	Limit           *int
	Offset          *int
}

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	PlaceOrder(ctx echo.Context) error
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	GetOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
	GetShipment(ctx echo.Context, orderId openapi_types.UUID) error
	TransitionOrder(ctx echo.Context, orderId openapi_types.UUID) error
	InitiateReturn(ctx echo.Context, orderId openapi_types.UUID) error
	AdvanceReturn(ctx echo.Context, shipmentId openapi_types.UUID) error
	ListWarehouses(ctx echo.Context) error
}

// ServerInterfaceWrapper binds path and query parameters before calling
// the ServerInterface.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) PlaceOrder(ctx echo.Context) error {
	return w.Handler.PlaceOrder(ctx)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	for _, p := range []struct {
		name string
		dest any
	}{
		{"customer_id", &params.CustomerId},
		{"vendor_id", &params.VendorId},
		{"logistics_team_id", &params.LogisticsTeamId},
		{"delivery_agent_id", &params.DeliveryAgentId},
		{"status", &params.Status},
		{"limit", &params.Limit},
		{"offset", &params.Offset},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, ctx.QueryParams(), p.dest); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", p.name, err))
		}
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetOrderStatus(ctx echo.Context) error {
	orderId, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetShipment(ctx echo.Context) error {
	orderId, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetShipment(ctx, orderId)
}

func (w *ServerInterfaceWrapper) TransitionOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.TransitionOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) InitiateReturn(ctx echo.Context) error {
	orderId, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.InitiateReturn(ctx, orderId)
}

func (w *ServerInterfaceWrapper) AdvanceReturn(ctx echo.Context) error {
	shipmentId, err := bindUUIDPathParam(ctx, "shipmentId")
	if err != nil {
		return err
	}
	return w.Handler.AdvanceReturn(ctx, shipmentId)
}

func (w *ServerInterfaceWrapper) ListWarehouses(ctx echo.Context) error {
	return w.Handler.ListWarehouses(ctx)
}

func bindUUIDPathParam(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlersWithBaseURL mounts every operation under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/orders", w.PlaceOrder)
	router.GET(baseURL+"/orders", w.ListOrders)
	router.GET(baseURL+"/orders/:orderId", w.GetOrder)
	router.GET(baseURL+"/orders/:orderId/status", w.GetOrderStatus)
	router.GET(baseURL+"/orders/:orderId/shipment", w.GetShipment)
	router.POST(baseURL+"/orders/:orderId/transitions", w.TransitionOrder)
	router.POST(baseURL+"/orders/:orderId/returns", w.InitiateReturn)
	router.POST(baseURL+"/shipments/:shipmentId/advance", w.AdvanceReturn)
	router.GET(baseURL+"/warehouses", w.ListWarehouses)
}
