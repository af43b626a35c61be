package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockPlaceOrderHandler struct{ mock.Mock }

func (m *MockPlaceOrderHandler) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockTransitionOrderHandler struct{ mock.Mock }

func (m *MockTransitionOrderHandler) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (order.Status, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(order.Status), args.Error(1)
}

type MockInitiateReturnHandler struct{ mock.Mock }

func (m *MockInitiateReturnHandler) Handle(ctx context.Context, cmd commands.InitiateReturnCommand) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockAdvanceReturnHandler struct{ mock.Mock }

func (m *MockAdvanceReturnHandler) Handle(ctx context.Context, cmd commands.AdvanceReturnCommand) (shipment.Status, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(shipment.Status), args.Error(1)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*queries.GetOrderQueryResponse)
	return resp, args.Error(1)
}

type MockListOrdersHandler struct{ mock.Mock }

func (m *MockListOrdersHandler) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).([]queries.OrderSummary)
	return resp, args.Error(1)
}

type MockGetOrderStatusHandler struct{ mock.Mock }

func (m *MockGetOrderStatusHandler) Handle(
	ctx context.Context,
	query queries.GetOrderStatusQuery,
) (*queries.GetOrderStatusQueryResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*queries.GetOrderStatusQueryResponse)
	return resp, args.Error(1)
}

type MockGetShipmentHandler struct{ mock.Mock }

func (m *MockGetShipmentHandler) Handle(
	ctx context.Context,
	query queries.GetShipmentQuery,
) (*queries.GetShipmentQueryResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*queries.GetShipmentQueryResponse)
	return resp, args.Error(1)
}

type MockListWarehousesHandler struct{ mock.Mock }

func (m *MockListWarehousesHandler) Handle(ctx context.Context, query queries.ListWarehousesQuery) ([]queries.WarehouseView, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).([]queries.WarehouseView)
	return resp, args.Error(1)
}

type ServerTestSuite struct {
	suite.Suite
	e *echo.Echo

	placeOrder     *MockPlaceOrderHandler
	transition     *MockTransitionOrderHandler
	initiateReturn *MockInitiateReturnHandler
	advanceReturn  *MockAdvanceReturnHandler
	getOrder       *MockGetOrderHandler
	listOrders     *MockListOrdersHandler
	getOrderStatus *MockGetOrderStatusHandler
	getShipment    *MockGetShipmentHandler
	listWarehouses *MockListWarehousesHandler
}

func (suite *ServerTestSuite) SetupTest() {
	suite.placeOrder = &MockPlaceOrderHandler{}
	suite.transition = &MockTransitionOrderHandler{}
	suite.initiateReturn = &MockInitiateReturnHandler{}
	suite.advanceReturn = &MockAdvanceReturnHandler{}
	suite.getOrder = &MockGetOrderHandler{}
	suite.listOrders = &MockListOrdersHandler{}
	suite.getOrderStatus = &MockGetOrderStatusHandler{}
	suite.getShipment = &MockGetShipmentHandler{}
	suite.listWarehouses = &MockListWarehousesHandler{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := api.NewServer(api.Handlers{
		PlaceOrder:      suite.placeOrder,
		TransitionOrder: suite.transition,
		InitiateReturn:  suite.initiateReturn,
		AdvanceReturn:   suite.advanceReturn,
		GetOrder:        suite.getOrder,
		ListOrders:      suite.listOrders,
		GetOrderStatus:  suite.getOrderStatus,
		GetShipment:     suite.getShipment,
		ListWarehouses:  suite.listWarehouses,
	}, logger)

	doc, err := api.LoadSwagger()
	suite.Require().NoError(err)

	suite.e, err = api.NewRouter(server, doc, logger)
	suite.Require().NoError(err)
}

func (suite *ServerTestSuite) do(method string, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	suite.e.ServeHTTP(rec, req)
	return rec
}

func (suite *ServerTestSuite) decodeError(rec *httptest.ResponseRecorder) api.Error {
	var e api.Error
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func (suite *ServerTestSuite) TestHealth() {
	rec := suite.do(http.MethodGet, "/health", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("Healthy", rec.Body.String())
}

func (suite *ServerTestSuite) TestSwaggerServesEmbeddedDocument() {
	rec := suite.do(http.MethodGet, "/swagger/doc.json", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "/api/v1/orders/{orderId}/transitions")
}

func (suite *ServerTestSuite) TestPlaceOrder_Created() {
	customerID := kernel.NewUUID()
	productID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	suite.placeOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PlaceOrderCommand) bool {
		lines := cmd.Lines()
		return cmd.CustomerID() == customerID && len(lines) == 1 &&
			lines[0].ProductID == productID && lines[0].Quantity == 2
	})).Return(orderID, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/orders",
		`{"customer_id":"`+customerID.String()+`","items":[{"product_id":"`+productID.String()+`","quantity":2}]}`)

	suite.Equal(http.StatusCreated, rec.Code)
	suite.JSONEq(`{"id":"`+orderID.String()+`"}`, rec.Body.String())
	suite.placeOrder.AssertExpectations(suite.T())
}

func (suite *ServerTestSuite) TestPlaceOrder_SchemaViolation_BadRequest() {
	rec := suite.do(http.MethodPost, "/api/v1/orders", `{"items":[]}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(http.StatusBadRequest, suite.decodeError(rec).Code)
	suite.placeOrder.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestPlaceOrder_QuantityAboveMaximum_BadRequest() {
	rec := suite.do(http.MethodPost, "/api/v1/orders",
		`{"customer_id":"`+kernel.NewUUID().String()+`","items":[{"product_id":"`+kernel.NewUUID().String()+`","quantity":1000001}]}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.placeOrder.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestPlaceOrder_EmptyCart_BadRequest() {
	rec := suite.do(http.MethodPost, "/api/v1/orders",
		`{"customer_id":"`+kernel.NewUUID().String()+`","items":[]}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.placeOrder.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestPlaceOrder_InsufficientStock_Conflict() {
	productID := kernel.NewUUID()
	suite.placeOrder.On("Handle", mock.Anything, mock.Anything).
		Return(kernel.UUID{}, product.NewInsufficientStockError(productID, 3, 1)).Once()

	rec := suite.do(http.MethodPost, "/api/v1/orders",
		`{"customer_id":"`+kernel.NewUUID().String()+`","items":[{"product_id":"`+productID.String()+`","quantity":3}]}`)

	suite.Equal(http.StatusConflict, rec.Code)
	suite.Contains(suite.decodeError(rec).Message, "insufficient stock")
}

func (suite *ServerTestSuite) TestTransitionOrder_ReturnsNewStatus() {
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	suite.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
		return cmd.OrderID() == orderID &&
			cmd.ActorID() == actorID &&
			cmd.Operation() == services.OperationOutForDelivery &&
			cmd.DeliveryAgentID() != nil && *cmd.DeliveryAgentID() == agentID &&
			cmd.WarehouseID() == nil
	})).Return(order.OutForDelivery, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/transitions",
		`{"actor_id":"`+actorID.String()+`","operation":"out_for_delivery","delivery_agent_id":"`+agentID.String()+`"}`)

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"status":"Out for Delivery"}`, rec.Body.String())
	suite.transition.AssertExpectations(suite.T())
}

func (suite *ServerTestSuite) TestTransitionOrder_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			"rejected",
			services.NewTransitionRejectedError(services.OperationShip, order.Pending, errs.NewValueIsInvalidError("status")),
			http.StatusConflict,
		},
		{"not authorized", services.ErrNotAuthorized, http.StatusForbidden},
		{"not found", errs.NewObjectNotFoundError("order", "42"), http.StatusNotFound},
		{"version conflict", errs.NewVersionIsInvalidError("order"), http.StatusConflict},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.transition.On("Handle", mock.Anything, mock.Anything).Return(order.Unknown, tt.err).Once()

			rec := suite.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions",
				`{"actor_id":"`+kernel.NewUUID().String()+`","operation":"accept"}`)

			suite.Equal(tt.code, rec.Code)
			suite.Equal(tt.code, suite.decodeError(rec).Code)
		})
	}
}

func (suite *ServerTestSuite) TestTransitionOrder_ReturnOperationIsNotAllowed() {
	rec := suite.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions",
		`{"actor_id":"`+kernel.NewUUID().String()+`","operation":"initiate_return"}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.transition.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestInitiateReturn_Created() {
	shipmentID := kernel.NewUUID()
	suite.initiateReturn.On("Handle", mock.Anything, mock.Anything).Return(shipmentID, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/returns",
		`{"actor_id":"`+kernel.NewUUID().String()+`"}`)

	suite.Equal(http.StatusCreated, rec.Code)
	suite.JSONEq(`{"shipment_id":"`+shipmentID.String()+`"}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestInitiateReturn_AlreadyReturned_Conflict() {
	suite.initiateReturn.On("Handle", mock.Anything, mock.Anything).Return(kernel.UUID{}, order.ErrAlreadyReturned).Once()

	rec := suite.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/returns",
		`{"actor_id":"`+kernel.NewUUID().String()+`"}`)

	suite.Equal(http.StatusConflict, rec.Code)
}

func (suite *ServerTestSuite) TestAdvanceReturn() {
	shipmentID := kernel.NewUUID()
	suite.advanceReturn.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AdvanceReturnCommand) bool {
		return cmd.ShipmentID() == shipmentID
	})).Return(shipment.Returning, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/shipments/"+shipmentID.String()+"/advance",
		`{"actor_id":"`+kernel.NewUUID().String()+`"}`)

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"status":"Returning"}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestGetOrder() {
	orderID := kernel.NewUUID()
	placedAt := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	suite.getOrder.On("Handle", mock.Anything, mock.Anything).Return(&queries.GetOrderQueryResponse{
		ID:         orderID,
		CustomerID: kernel.NewUUID(),
		VendorID:   kernel.NewUUID(),
		Status:     "Pending",
		TotalPrice: "25.00",
		PlacedAt:   placedAt,
		UpdatedAt:  placedAt,
		Items: []queries.OrderItemView{
			{ProductID: kernel.NewUUID(), Quantity: 2, UnitPrice: "10.00", Subtotal: "20.00"},
		},
	}, nil).Once()

	rec := suite.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

	suite.Require().Equal(http.StatusOK, rec.Code)
	var body api.Order
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal(orderID.Value(), body.Id)
	suite.Equal("25.00", body.TotalPrice)
	suite.Nil(body.LogisticsTeamId)
	suite.Require().Len(body.Items, 1)
	suite.Equal("20.00", body.Items[0].Subtotal)
	suite.NotContains(rec.Body.String(), "logistics_team_id")
}

func (suite *ServerTestSuite) TestGetOrder_MalformedID_BadRequest() {
	rec := suite.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.getOrder.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestGetOrder_NotFound() {
	suite.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("order", "x")).Once()

	rec := suite.do(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), "")

	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *ServerTestSuite) TestListOrders_PassesFilter() {
	customerID := kernel.NewUUID()
	suite.listOrders.On("Handle", mock.Anything, mock.MatchedBy(func(query queries.ListOrdersQuery) bool {
		f := query.Filter()
		return f.CustomerID != nil && *f.CustomerID == customerID &&
			f.Status != nil && *f.Status == order.InTransit &&
			f.Limit == 10 && f.Offset == 20
	})).Return([]queries.OrderSummary{}, nil).Once()

	rec := suite.do(http.MethodGet,
		"/api/v1/orders?customer_id="+customerID.String()+"&status=In%20Transit&limit=10&offset=20", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`[]`, rec.Body.String())
	suite.listOrders.AssertExpectations(suite.T())
}

func (suite *ServerTestSuite) TestListOrders_LimitAboveMaximum_BadRequest() {
	rec := suite.do(http.MethodGet, "/api/v1/orders?limit=500", "")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.listOrders.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestGetOrderStatus() {
	orderID := kernel.NewUUID()
	suite.getOrderStatus.On("Handle", mock.Anything, mock.Anything).Return(&queries.GetOrderStatusQueryResponse{
		OrderID:   orderID,
		Status:    "Delivered",
		UpdatedAt: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}, nil).Once()

	rec := suite.do(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/status", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"order_id":"`+orderID.String()+`","status":"Delivered","is_returned":false,"updated_at":"2026-04-02T00:00:00Z"}`,
		rec.Body.String())
}

func (suite *ServerTestSuite) TestGetShipment() {
	orderID := kernel.NewUUID()
	forward := queries.ShipmentView{ID: kernel.NewUUID(), Status: "Shipped", TrackingNumber: "TRK-0123456789AB"}
	suite.getShipment.On("Handle", mock.Anything, mock.Anything).Return(&queries.GetShipmentQueryResponse{
		OrderID:   orderID,
		Current:   &forward,
		Shipments: []queries.ShipmentView{forward},
		History:   []queries.ShipmentTransition{{ShipmentID: forward.ID.String(), From: "Pending", To: "Shipped"}},
	}, nil).Once()

	rec := suite.do(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/shipment", "")

	suite.Require().Equal(http.StatusOK, rec.Code)
	var body api.ShipmentTracking
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Require().NotNil(body.Current)
	suite.Equal("TRK-0123456789AB", body.Current.TrackingNumber)
	suite.Len(body.History, 1)
}

func (suite *ServerTestSuite) TestListWarehouses() {
	suite.listWarehouses.On("Handle", mock.Anything, mock.Anything).Return([]queries.WarehouseView{
		{ID: kernel.NewUUID(), Name: "North Hub", Location: "Lille", Capacity: 25},
	}, nil).Once()

	rec := suite.do(http.MethodGet, "/api/v1/warehouses", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `"name":"North Hub"`)
}

func (suite *ServerTestSuite) TestUnknownRoute_NotFound() {
	rec := suite.do(http.MethodGet, "/api/v1/couriers", "")

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(http.StatusNotFound, suite.decodeError(rec).Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(order.ErrEmptyCart))
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(errs.NewValueIsOutOfRangeError("limit", 0, 1, 200)))
	assert.Equal(t, http.StatusConflict, api.StatusCode(
		services.NewTransitionRejectedError(services.OperationDeliver, order.Packaged, errs.NewValueIsInvalidError("status"))),
		"a rejected transition wins over the validation error it wraps")
	assert.Equal(t, http.StatusConflict, api.StatusCode(order.ErrNotDeliveredYet))
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(context.DeadlineExceeded))
}

func TestLoadSwagger(t *testing.T) {
	doc, err := api.LoadSwagger()

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/v1/shipments/{shipmentId}/advance"))
}
