package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type returnFixture struct {
	customer *actor.Actor
	team     *actor.Actor
	product  *product.Product
	order    *order.Order
	forward  *shipment.Shipment
}

// deliveredOrder is an order of two units, delivered by team.
func deliveredOrder(t *testing.T) returnFixture {
	t.Helper()
	f := returnFixture{
		customer: newActor(t, actor.Customer),
		team:     newActor(t, actor.Logistics),
	}
	f.product = newProduct(t, newActor(t, actor.Vendor).ID(), "10", 5)
	f.order = restoreOrder(t, f.customer, f.product, 2, order.Delivered, false, f.team)

	var err error
	f.forward, err = shipment.RestoreShipment(kernel.NewUUID(), f.order.ID(), nil, shipment.Delivered,
		"TRK-0123456789AB", false, f.order.PlacedAt(), 3)
	require.NoError(t, err)
	return f
}

// returningOrder is deliveredOrder after a return was opened.
func returningOrder(t *testing.T, retStatus shipment.Status) (returnFixture, *shipment.Shipment) {
	t.Helper()
	f := deliveredOrder(t)
	f.order = restoreOrder(t, f.customer, f.product, 2, order.InTransit, true, f.team)
	f.forward, _ = shipment.RestoreShipment(f.forward.ID(), f.order.ID(), nil, shipment.Delivered,
		f.forward.TrackingNumber(), false, f.forward.CreatedAt(), 3)

	ret, err := shipment.RestoreShipment(kernel.NewUUID(), f.order.ID(), nil, retStatus,
		"RTN-0123456789AB", true, f.order.PlacedAt(), 1)
	require.NoError(t, err)
	return f, ret
}

func TestInitiateReturnCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := deliveredOrder(t)

	cmd, err := commands.NewInitiateReturnCommand(f.order.ID(), f.customer.ID())
	require.NoError(t, err)

	r := newRepos()
	var created *shipment.Shipment
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.actors.On("Get", ctx, f.customer.ID()).Return(f.customer, nil).Once()
	r.orders.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once()
	r.shipments.On("GetByOrderForUpdate", ctx, f.order.ID()).Return([]*shipment.Shipment{f.forward}, nil).Once()
	r.orders.On("Update", ctx, f.order).Return(nil).Once()
	r.shipments.On("Update", ctx, f.forward).Return(nil).Once()
	r.shipments.On("Add", ctx, mock.AnythingOfType("*shipment.Shipment")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*shipment.Shipment) }).
		Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()
	r.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewInitiateReturnCommandHandler(MockLifecycleUoWFactory{r.uow}, newEngine(t))
	id, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, created.ID(), id)
	assert.True(t, created.IsReturn())
	assert.Equal(t, shipment.ReturnInitiated, created.Status())
	assert.Equal(t, order.InTransit, f.order.Status())
	assert.True(t, f.order.IsReturned())
	r.products.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	r.assertExpectations(t)
}

func TestInitiateReturnCommandHandler_Handle_AlreadyReturned(t *testing.T) {
	ctx := t.Context()
	f, ret := returningOrder(t, shipment.ReturnInitiated)

	cmd, err := commands.NewInitiateReturnCommand(f.order.ID(), f.customer.ID())
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.actors.On("Get", ctx, f.customer.ID()).Return(f.customer, nil).Once()
	r.orders.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once()
	r.shipments.On("GetByOrderForUpdate", ctx, f.order.ID()).
		Return([]*shipment.Shipment{f.forward, ret}, nil).Once()
	r.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewInitiateReturnCommandHandler(MockLifecycleUoWFactory{r.uow}, newEngine(t))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrAlreadyReturned)
	r.shipments.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	r.uow.AssertNotCalled(t, "Commit", mock.Anything)
	r.assertExpectations(t)
}

func TestInitiateReturnCommandHandler_Handle_NotDeliveredYet(t *testing.T) {
	ctx := t.Context()
	customer := newActor(t, actor.Customer)
	p := newProduct(t, newActor(t, actor.Vendor).ID(), "10", 5)
	o := restoreOrder(t, customer, p, 1, order.Accepted, false, nil)

	cmd, err := commands.NewInitiateReturnCommand(o.ID(), customer.ID())
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.actors.On("Get", ctx, customer.ID()).Return(customer, nil).Once()
	r.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	r.shipments.On("GetByOrderForUpdate", ctx, o.ID()).Return([]*shipment.Shipment{}, nil).Once()
	r.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewInitiateReturnCommandHandler(MockLifecycleUoWFactory{r.uow}, newEngine(t))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, services.ErrTransitionRejected)
	require.ErrorIs(t, err, order.ErrNotDeliveredYet)
	r.assertExpectations(t)
}

func TestAdvanceReturnCommandHandler_Handle_Returning(t *testing.T) {
	ctx := t.Context()
	f, ret := returningOrder(t, shipment.ReturnInitiated)

	cmd, err := commands.NewAdvanceReturnCommand(ret.ID(), f.team.ID())
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.actors.On("Get", ctx, f.team.ID()).Return(f.team, nil).Once()
	r.shipments.On("Get", ctx, ret.ID()).Return(ret, nil).Once()
	r.orders.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once()
	r.shipments.On("GetByOrderForUpdate", ctx, f.order.ID()).
		Return([]*shipment.Shipment{f.forward, ret}, nil).Once()
	r.products.On("GetForUpdate", ctx, []kernel.UUID{f.product.ID()}).
		Return([]*product.Product{f.product}, nil).Once()
	r.orders.On("Update", ctx, f.order).Return(nil).Once()
	r.shipments.On("Update", ctx, f.forward).Return(nil).Once()
	r.shipments.On("Update", ctx, ret).Return(nil).Once()
	r.products.On("Update", ctx, f.product).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()
	r.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewAdvanceReturnCommandHandler(MockLifecycleUoWFactory{r.uow}, newEngine(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, shipment.Returning, status)
	assert.Equal(t, order.InTransit, f.order.Status())
	assert.Equal(t, 5, f.product.Stock())
	r.assertExpectations(t)
}

func TestAdvanceReturnCommandHandler_Handle_ReturnedToVendorRestocks(t *testing.T) {
	ctx := t.Context()
	f, ret := returningOrder(t, shipment.Returning)

	cmd, err := commands.NewAdvanceReturnCommand(ret.ID(), f.team.ID())
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.actors.On("Get", ctx, f.team.ID()).Return(f.team, nil).Once()
	r.shipments.On("Get", ctx, ret.ID()).Return(ret, nil).Once()
	r.orders.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once()
	r.shipments.On("GetByOrderForUpdate", ctx, f.order.ID()).
		Return([]*shipment.Shipment{f.forward, ret}, nil).Once()
	r.products.On("GetForUpdate", ctx, []kernel.UUID{f.product.ID()}).
		Return([]*product.Product{f.product}, nil).Once()
	r.orders.On("Update", ctx, f.order).Return(nil).Once()
	r.shipments.On("Update", ctx, mock.AnythingOfType("*shipment.Shipment")).Return(nil).Twice()
	r.products.On("Update", ctx, f.product).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()
	r.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewAdvanceReturnCommandHandler(MockLifecycleUoWFactory{r.uow}, newEngine(t))
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, shipment.ReturnedToVendor, status)
	assert.Equal(t, order.ReturnedToVendor, f.order.Status())
	assert.Equal(t, 7, f.product.Stock())
	r.assertExpectations(t)
}

func TestAdvanceReturnCommandHandler_Handle_ForwardShipmentRejected(t *testing.T) {
	ctx := t.Context()
	f, ret := returningOrder(t, shipment.ReturnInitiated)

	cmd, err := commands.NewAdvanceReturnCommand(f.forward.ID(), f.team.ID())
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.actors.On("Get", ctx, f.team.ID()).Return(f.team, nil).Once()
	r.shipments.On("Get", ctx, f.forward.ID()).Return(f.forward, nil).Once()
	r.orders.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once()
	r.shipments.On("GetByOrderForUpdate", ctx, f.order.ID()).
		Return([]*shipment.Shipment{f.forward, ret}, nil).Once()
	r.products.On("GetForUpdate", ctx, mock.Anything).Return([]*product.Product{f.product}, nil).Once()
	r.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewAdvanceReturnCommandHandler(MockLifecycleUoWFactory{r.uow}, newEngine(t))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, services.ErrTransitionRejected)
	assert.Equal(t, shipment.ReturnInitiated, ret.Status())
	r.uow.AssertNotCalled(t, "Commit", mock.Anything)
	r.assertExpectations(t)
}

func TestAdvanceReturnCommandHandler_Handle_CustomerNotAuthorized(t *testing.T) {
	ctx := t.Context()
	f, ret := returningOrder(t, shipment.ReturnInitiated)

	cmd, err := commands.NewAdvanceReturnCommand(ret.ID(), f.customer.ID())
	require.NoError(t, err)

	r := newRepos()
	r.uow.On("Begin", ctx).Return(nil).Once()
	r.actors.On("Get", ctx, f.customer.ID()).Return(f.customer, nil).Once()
	r.shipments.On("Get", ctx, ret.ID()).Return(ret, nil).Once()
	r.orders.On("GetForUpdate", ctx, f.order.ID()).Return(f.order, nil).Once()
	r.shipments.On("GetByOrderForUpdate", ctx, f.order.ID()).
		Return([]*shipment.Shipment{f.forward, ret}, nil).Once()
	r.products.On("GetForUpdate", ctx, mock.Anything).Return([]*product.Product{f.product}, nil).Once()
	r.uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewAdvanceReturnCommandHandler(MockLifecycleUoWFactory{r.uow}, newEngine(t))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, services.ErrNotAuthorized)
	r.assertExpectations(t)
}
