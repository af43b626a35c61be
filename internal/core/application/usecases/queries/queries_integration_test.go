package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/warehouse"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// QueriesIntegrationTestSuite drives orders through the command handlers and
// reads them back through every query handler.
type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	engine    *services.LifecycleEngine

	customer  *actor.Actor
	vendor    *actor.Actor
	logistics *actor.Actor
	mug       *product.Product
	plate     *product.Product
	north     *warehouse.Warehouse
	south     *warehouse.Warehouse
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)

	policy, err := services.NewAccessPolicy(services.DefaultCapabilities())
	suite.Require().NoError(err)
	suite.engine, err = services.NewLifecycleEngine(policy)
	suite.Require().NoError(err)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE outbox_messages, shipments, order_items, orders, products, warehouses, actors",
	).Error
	suite.Require().NoError(err)
	suite.seedCatalogue()
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_ReturnsOrderWithItems() {
	orderID := suite.placeOrder(suite.mug, 2, suite.plate, 1)

	query, err := queries.NewGetOrderQuery(orderID)
	suite.Require().NoError(err)

	view, err := queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(orderID, view.ID)
	suite.Equal(suite.customer.ID(), view.CustomerID)
	suite.Equal(suite.vendor.ID(), view.VendorID)
	suite.Nil(view.LogisticsTeamID)
	suite.Equal(order.Pending.String(), view.Status)
	suite.Equal("25.00", view.TotalPrice)
	suite.Require().Len(view.Items, 2)
	suite.Equal(suite.mug.ID(), view.Items[0].ProductID)
	suite.Equal(2, view.Items[0].Quantity)
	suite.Equal("10.00", view.Items[0].UnitPrice)
	suite.Equal("20.00", view.Items[0].Subtotal)
	suite.Equal("5.00", view.Items[1].Subtotal)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_UnknownOrder_ReturnsNotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	view, err := queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Nil(view)
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_InvalidQuery_ReturnsError() {
	view, err := queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), queries.GetOrderQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetOrderQueryIsNotConstructed)
	suite.Nil(view)
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_FiltersAndPages() {
	first := suite.placeOrder(suite.mug, 1, nil, 0)
	second := suite.placeOrder(suite.plate, 1, nil, 0)
	third := suite.placeOrder(suite.mug, 1, nil, 0)
	suite.transition(second, suite.customer, services.OperationCancel)
	suite.transition(third, suite.vendor, services.OperationAccept)

	handler := queries.NewListOrdersQueryHandler(suite.db)
	list := func(filter queries.OrderFilter) []queries.OrderSummary {
		query, err := queries.NewListOrdersQuery(filter)
		suite.Require().NoError(err)
		orders, err := handler.Handle(context.Background(), query)
		suite.Require().NoError(err)
		return orders
	}

	all := list(queries.OrderFilter{CustomerID: ptr(suite.customer.ID())})
	suite.Require().Len(all, 3)
	suite.Equal([]kernel.UUID{third, second, first}, ids(all))

	cancelled := order.Cancelled
	suite.Equal([]kernel.UUID{second}, ids(list(queries.OrderFilter{Status: &cancelled})))

	paged := list(queries.OrderFilter{VendorID: ptr(suite.vendor.ID()), Limit: 1, Offset: 1})
	suite.Equal([]kernel.UUID{second}, ids(paged))

	suite.Empty(list(queries.OrderFilter{LogisticsTeamID: ptr(suite.logistics.ID())}))
	suite.Empty(list(queries.OrderFilter{CustomerID: ptr(suite.vendor.ID())}))
}

func (suite *QueriesIntegrationTestSuite) TestGetShipment_BeforeShipping_HasNoCurrentShipment() {
	orderID := suite.placeOrder(suite.mug, 1, nil, 0)

	query, err := queries.NewGetShipmentQuery(orderID)
	suite.Require().NoError(err)

	resp, err := queries.NewGetShipmentQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Nil(resp.Current)
	suite.Empty(resp.Shipments)
	suite.Empty(resp.History)
}

func (suite *QueriesIntegrationTestSuite) TestGetShipment_AfterShipping_ReturnsForwardShipmentAndHistory() {
	orderID := suite.placeOrder(suite.mug, 1, nil, 0)
	suite.transition(orderID, suite.vendor, services.OperationAccept)
	suite.transition(orderID, suite.vendor, services.OperationPack)
	suite.transition(orderID, suite.logistics, services.OperationShip)

	query, err := queries.NewGetShipmentQuery(orderID)
	suite.Require().NoError(err)

	resp, err := queries.NewGetShipmentQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.Current)
	suite.False(resp.Current.IsReturn)
	suite.Equal(shipment.Shipped.String(), resp.Current.Status)
	suite.Regexp(`^TRK-[0-9A-F]{12}$`, resp.Current.TrackingNumber)
	suite.Len(resp.Shipments, 1)

	suite.Require().Len(resp.History, 1)
	suite.Equal(shipment.Pending.String(), resp.History[0].From)
	suite.Equal(shipment.Shipped.String(), resp.History[0].To)
	suite.Equal(resp.Current.ID.String(), resp.History[0].ShipmentID)
}

func (suite *QueriesIntegrationTestSuite) TestGetShipment_UnknownOrder_ReturnsNotFound() {
	query, err := queries.NewGetShipmentQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	resp, err := queries.NewGetShipmentQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Nil(resp)
}

func (suite *QueriesIntegrationTestSuite) TestStatusLoader_ReadsOrderRow() {
	orderID := suite.placeOrder(suite.mug, 1, nil, 0)
	suite.transition(orderID, suite.vendor, services.OperationAccept)

	query, err := queries.NewGetOrderStatusQuery(orderID)
	suite.Require().NoError(err)

	status, err := queries.NewGormStatusLoader(suite.db).Load(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(order.Accepted.String(), status.Status)
	suite.False(status.IsReturned)
	suite.Equal(time.UTC, status.UpdatedAt.Location())

	missing, err := queries.NewGetOrderStatusQuery(kernel.NewUUID())
	suite.Require().NoError(err)
	_, err = queries.NewGormStatusLoader(suite.db).Load(context.Background(), missing)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestListWarehouses_OrderedByName() {
	result, err := queries.NewListWarehousesQueryHandler(suite.db).
		Handle(context.Background(), queries.NewListWarehousesQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("North Hub", result[0].Name)
	suite.Equal(suite.north.ID(), result[0].ID)
	suite.Equal("South Hub", result[1].Name)
	suite.Equal(40, result[1].Capacity)
}

func (suite *QueriesIntegrationTestSuite) TestListWarehouses_ContextCancellation_ReturnsError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := queries.NewListWarehousesQueryHandler(suite.db).Handle(ctx, queries.NewListWarehousesQuery())

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *QueriesIntegrationTestSuite) seedCatalogue() {
	var err error
	suite.customer, err = actor.NewActor(kernel.NewUUID(), "Carol", actor.Customer)
	suite.Require().NoError(err)
	suite.vendor, err = actor.NewActor(kernel.NewUUID(), "Vera", actor.Vendor)
	suite.Require().NoError(err)
	suite.logistics, err = actor.NewActor(kernel.NewUUID(), "Lars", actor.Logistics)
	suite.Require().NoError(err)

	suite.mug = suite.newProduct("Mug", "10")
	suite.plate = suite.newProduct("Plate", "5")

	suite.south, err = warehouse.NewWarehouse(kernel.NewUUID(), "South Hub", "Lyon", 40)
	suite.Require().NoError(err)
	suite.north, err = warehouse.NewWarehouse(kernel.NewUUID(), "North Hub", "Lille", 25)
	suite.Require().NoError(err)

	cmd, err := commands.NewSeedCatalogueCommand(
		[]*actor.Actor{suite.customer, suite.vendor, suite.logistics},
		[]*warehouse.Warehouse{suite.south, suite.north},
		[]*product.Product{suite.mug, suite.plate},
	)
	suite.Require().NoError(err)

	handler := commands.NewSeedCatalogueCommandHandler(
		catalogueFactory(func() commands.CatalogueUoW { return suite.factory.Create() }),
	)
	suite.Require().NoError(handler.Handle(context.Background(), cmd))
}

func (suite *QueriesIntegrationTestSuite) newProduct(name string, price string) *product.Product {
	money, err := kernel.MoneyFromString(price)
	suite.Require().NoError(err)
	p, err := product.NewProduct(kernel.NewUUID(), name, suite.vendor.ID(), money, 100)
	suite.Require().NoError(err)
	return p
}

func (suite *QueriesIntegrationTestSuite) placeOrder(
	first *product.Product, firstQty int,
	second *product.Product, secondQty int,
) kernel.UUID {
	lines := []services.Line{{ProductID: first.ID(), Quantity: firstQty}}
	if second != nil {
		lines = append(lines, services.Line{ProductID: second.ID(), Quantity: secondQty})
	}
	cmd, err := commands.NewPlaceOrderCommand(suite.customer.ID(), lines)
	suite.Require().NoError(err)

	handler := commands.NewPlaceOrderCommandHandler(
		placeOrderFactory(func() commands.PlaceOrderUoW { return suite.factory.Create() }),
		suite.engine,
	)
	orderID, err := handler.Handle(context.Background(), cmd)
	suite.Require().NoError(err)

	// placed_at orders the listing
	time.Sleep(5 * time.Millisecond)
	return orderID
}

func (suite *QueriesIntegrationTestSuite) transition(orderID kernel.UUID, a *actor.Actor, op services.Operation) {
	cmd, err := commands.NewTransitionOrderCommand(orderID, a.ID(), op, nil, nil)
	suite.Require().NoError(err)

	handler := commands.NewTransitionOrderCommandHandler(
		lifecycleFactory(func() commands.LifecycleUoW { return suite.factory.Create() }),
		suite.engine,
	)
	_, err = handler.Handle(context.Background(), cmd)
	suite.Require().NoError(err)
}

type placeOrderFactory func() commands.PlaceOrderUoW

func (f placeOrderFactory) Create() commands.PlaceOrderUoW { return f() }

type lifecycleFactory func() commands.LifecycleUoW

func (f lifecycleFactory) Create() commands.LifecycleUoW { return f() }

type catalogueFactory func() commands.CatalogueUoW

func (f catalogueFactory) Create() commands.CatalogueUoW { return f() }

func ptr(id kernel.UUID) *kernel.UUID {
	return &id
}

func ids(orders []queries.OrderSummary) []kernel.UUID {
	result := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		result = append(result, o.ID)
	}
	return result
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
