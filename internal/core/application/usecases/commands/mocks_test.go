package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/warehouse"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockActorRepository struct{ mock.Mock }

func (m *MockActorRepository) Add(ctx context.Context, a *actor.Actor) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActorRepository) Get(ctx context.Context, id kernel.UUID) (*actor.Actor, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*actor.Actor), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockWarehouseRepository struct{ mock.Mock }

func (m *MockWarehouseRepository) Add(ctx context.Context, w *warehouse.Warehouse) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWarehouseRepository) Get(ctx context.Context, id kernel.UUID) (*warehouse.Warehouse, error) {
	args := m.Called(ctx, id)
	if w := args.Get(0); w != nil {
		return w.(*warehouse.Warehouse), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*product.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if p := args.Get(0); p != nil {
		return p.([]*product.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*shipment.Shipment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShipmentRepository) GetByOrderForUpdate(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, orderID)
	if s := args.Get(0); s != nil {
		return s.([]*shipment.Shipment), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) GetUnpublishedForUpdate(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]ports.OutboxMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID, publishedAt time.Time) error {
	args := m.Called(ctx, ids, publishedAt)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockOrderStatusCache struct{ mock.Mock }

func (m *MockOrderStatusCache) Get(ctx context.Context, id kernel.UUID) (ports.CachedOrderStatus, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.CachedOrderStatus), args.Bool(1), args.Error(2)
}

func (m *MockOrderStatusCache) Set(ctx context.Context, id kernel.UUID, s ports.CachedOrderStatus) error {
	args := m.Called(ctx, id, s)
	return args.Error(0)
}

func (m *MockOrderStatusCache) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUoW satisfies every unit of work interface of the package; each test
// sets expectations only for the repositories its handler uses.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ActorRepository() ports.ActorRepository {
	args := m.Called()
	return args.Get(0).(ports.ActorRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) WarehouseRepository() ports.WarehouseRepository {
	args := m.Called()
	return args.Get(0).(ports.WarehouseRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockPlaceOrderUoWFactory struct{ uow *MockUoW }

func (f MockPlaceOrderUoWFactory) Create() commands.PlaceOrderUoW { return f.uow }

type MockLifecycleUoWFactory struct{ uow *MockUoW }

func (f MockLifecycleUoWFactory) Create() commands.LifecycleUoW { return f.uow }

type MockCatalogueUoWFactory struct{ uow *MockUoW }

func (f MockCatalogueUoWFactory) Create() commands.CatalogueUoW { return f.uow }

type MockOutboxUoWFactory struct{ uow *MockUoW }

func (f MockOutboxUoWFactory) Create() commands.OutboxUoW { return f.uow }

// repos bundles the repository mocks behind one MockUoW; every getter may be
// called any number of times.
type repos struct {
	uow        *MockUoW
	actors     *MockActorRepository
	products   *MockProductRepository
	orders     *MockOrderRepository
	shipments  *MockShipmentRepository
	warehouses *MockWarehouseRepository
	outbox     *MockOutboxRepository
}

func newRepos() *repos {
	r := &repos{
		uow:        new(MockUoW),
		actors:     new(MockActorRepository),
		products:   new(MockProductRepository),
		orders:     new(MockOrderRepository),
		shipments:  new(MockShipmentRepository),
		warehouses: new(MockWarehouseRepository),
		outbox:     new(MockOutboxRepository),
	}
	r.uow.On("ActorRepository").Return(r.actors).Maybe()
	r.uow.On("ProductRepository").Return(r.products).Maybe()
	r.uow.On("OrderRepository").Return(r.orders).Maybe()
	r.uow.On("ShipmentRepository").Return(r.shipments).Maybe()
	r.uow.On("WarehouseRepository").Return(r.warehouses).Maybe()
	r.uow.On("OutboxRepository").Return(r.outbox).Maybe()
	return r
}

func (r *repos) assertExpectations(t *testing.T) {
	t.Helper()
	r.uow.AssertExpectations(t)
	r.actors.AssertExpectations(t)
	r.products.AssertExpectations(t)
	r.orders.AssertExpectations(t)
	r.shipments.AssertExpectations(t)
	r.warehouses.AssertExpectations(t)
	r.outbox.AssertExpectations(t)
}

func newActor(t *testing.T, role actor.Role) *actor.Actor {
	t.Helper()
	a, err := actor.NewActor(kernel.NewUUID(), role.String()+" user", role)
	require.NoError(t, err)
	return a
}

func newProduct(t *testing.T, vendorID kernel.UUID, price string, stock int) *product.Product {
	t.Helper()
	m, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	p, err := product.NewProduct(kernel.NewUUID(), "product", vendorID, m, stock)
	require.NoError(t, err)
	return p
}

func newEngine(t *testing.T) *services.LifecycleEngine {
	t.Helper()
	policy, err := services.NewAccessPolicy(services.DefaultCapabilities())
	require.NoError(t, err)
	engine, err := services.NewLifecycleEngine(policy)
	require.NoError(t, err)
	return engine
}

// restoreOrder builds a persisted order of one item in the given state.
func restoreOrder(
	t *testing.T,
	customer *actor.Actor,
	p *product.Product,
	quantity int,
	status order.Status,
	isReturned bool,
	logistics *actor.Actor,
) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), p.ID(), quantity, p.Price())
	require.NoError(t, err)

	s := order.Snapshot{
		ID:         kernel.NewUUID(),
		CustomerID: customer.ID(),
		VendorID:   p.VendorID(),
		Items:      []*order.Item{item},
		TotalPrice: item.Subtotal(),
		Status:     status,
		IsReturned: isReturned,
		PlacedAt:   time.Now().UTC(),
		Version:    1,
	}
	if logistics != nil {
		id := logistics.ID()
		s.LogisticsTeamID = &id
		s.DeliveryAgentID = &id
	}
	o, err := order.RestoreOrder(s)
	require.NoError(t, err)
	return o
}
