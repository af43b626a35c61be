package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

// Fulfillment is the working set of one lifecycle operation: the order, its
// current shipments and, for operations that touch stock, its products.
// Forward and Return may be nil; the engine creates them when an operation
// starts a shipment.
type Fulfillment struct {
	Order    *order.Order
	Forward  *shipment.Shipment
	Return   *shipment.Shipment
	Products map[kernel.UUID]*product.Product
}

// TransitionRequest carries the operation and its optional arguments.
type TransitionRequest struct {
	Operation Operation

	// WarehouseID is required by assign_warehouse and optional for move_in_transit.
	WarehouseID *kernel.UUID

	// DeliveryAgent is required by out_for_delivery and must be a Logistics actor.
	DeliveryAgent *actor.Actor

	// ShipmentID addresses the shipment advanced by advance_return.
	ShipmentID *kernel.UUID
}

// LifecycleEngine applies lifecycle operations to a Fulfillment. It checks
// the access policy before touching anything, rejects operations invoked from
// the wrong state, keeps order, shipments and stock in step and verifies their
// joint consistency before returning.
//
// The engine never persists anything; callers run it inside a unit of work
// and roll back on any error.
type LifecycleEngine struct {
	policy *AccessPolicy
	ledger InventoryLedger
}

func NewLifecycleEngine(policy *AccessPolicy) (*LifecycleEngine, error) {
	if policy == nil {
		return nil, errs.NewValueIsRequiredError("policy")
	}
	return &LifecycleEngine{policy: policy, ledger: NewInventoryLedger()}, nil
}

// PlaceOrder reserves stock for the cart and creates a Pending order.
// products must hold every product of the cart, locked for update. On failure
// no stock is left reserved.
func (e *LifecycleEngine) PlaceOrder(
	customer *actor.Actor,
	products map[kernel.UUID]*product.Product,
	lines []Line,
) (*order.Order, error) {
	if err := e.policy.Authorize(customer, OperationPlaceOrder, nil); err != nil {
		return nil, err
	}

	merged, err := MergeLines(lines)
	if err != nil {
		return nil, err
	}

	vendorID, err := singleVendor(products, merged)
	if err != nil {
		return nil, err
	}

	if err := e.ledger.ReserveAll(products, merged); err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(merged))
	for _, l := range merged {
		item, err := order.NewItem(kernel.NewUUID(), l.ProductID, l.Quantity, products[l.ProductID].Price())
		if err != nil {
			return nil, errors.Join(err, e.ledger.ReleaseAll(products, merged))
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(kernel.NewUUID(), customer.ID(), vendorID, items)
	if err != nil {
		return nil, errors.Join(err, e.ledger.ReleaseAll(products, merged))
	}
	return o, nil
}

func singleVendor(products map[kernel.UUID]*product.Product, lines []Line) (kernel.UUID, error) {
	var vendorID *kernel.UUID
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return kernel.UUID{}, errs.NewObjectNotFoundError("product", l.ProductID.String())
		}
		id := p.VendorID()
		if vendorID == nil {
			vendorID = &id
			continue
		}
		if !vendorID.IsEqual(id) {
			return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(
				"cart is invalid", errors.New("products of more than one vendor cannot be ordered together"))
		}
	}
	return *vendorID, nil
}

// Apply runs one lifecycle operation on f on behalf of a.
func (e *LifecycleEngine) Apply(a *actor.Actor, f *Fulfillment, req TransitionRequest) error {
	if f == nil {
		return errs.NewValueIsRequiredError("fulfillment")
	}
	if req.Operation == OperationPlaceOrder {
		return errs.NewValueIsInvalidErrorWithCause(
			"operation is invalid", errors.New("orders are placed through PlaceOrder"))
	}
	if err := e.policy.Authorize(a, req.Operation, f.Order); err != nil {
		return err
	}

	if err := e.apply(a, f, req); err != nil {
		return err
	}

	return f.Order.ValidateShipments(f.Forward, f.Return)
}

func (e *LifecycleEngine) apply(a *actor.Actor, f *Fulfillment, req TransitionRequest) error {
	o := f.Order
	op := req.Operation

	switch op {
	case OperationCancel:
		if err := o.Cancel(); err != nil {
			return NewTransitionRejectedError(op, o.Status(), err)
		}
		return e.ledger.ReleaseAll(f.Products, ItemLines(o.Items()))

	case OperationAccept:
		return rejectOnError(op, o.Status(), o.Accept)

	case OperationPack:
		return rejectOnError(op, o.Status(), o.Pack)

	case OperationShip:
		return e.ship(a, f)

	case OperationMoveInTransit:
		return e.moveInTransit(f, req.WarehouseID)

	case OperationOutForDelivery:
		return e.sendOutForDelivery(f, req.DeliveryAgent)

	case OperationDeliver:
		if _, err := o.Status().Deliver(); err != nil {
			return NewTransitionRejectedError(op, o.Status(), err)
		}
		forward, err := f.forward()
		if err != nil {
			return err
		}
		if err := o.Deliver(); err != nil {
			return err
		}
		return forward.Deliver()

	case OperationAssignWarehouse:
		return e.assignWarehouse(f, req.WarehouseID)

	case OperationInitiateReturn:
		return e.initiateReturn(f)

	case OperationAdvanceReturn:
		return e.advanceReturn(f, req.ShipmentID)

	default:
		return op.Validate()
	}
}

func (f *Fulfillment) forward() (*shipment.Shipment, error) {
	if f.Forward == nil {
		return nil, errs.NewObjectNotFoundError("forward shipment", f.Order.ID().String())
	}
	return f.Forward, nil
}

func (e *LifecycleEngine) ship(a *actor.Actor, f *Fulfillment) error {
	o := f.Order
	if _, err := o.Status().Ship(); err != nil {
		return NewTransitionRejectedError(OperationShip, o.Status(), err)
	}

	if a.Is(actor.Logistics) {
		if err := o.ClaimLogistics(a.ID()); err != nil {
			return err
		}
	}

	if f.Forward == nil {
		forward, err := shipment.NewForwardShipment(kernel.NewUUID(), o.ID(), o.WarehouseID())
		if err != nil {
			return err
		}
		f.Forward = forward
	}
	if err := f.Forward.Ship(shipment.NewTrackingNumber(false)); err != nil {
		return err
	}
	return o.Ship()
}

func (e *LifecycleEngine) moveInTransit(f *Fulfillment, warehouseID *kernel.UUID) error {
	o := f.Order
	if warehouseID != nil {
		if err := warehouseID.Validate(); err != nil {
			return err
		}
	}
	if err := rejectOnError(OperationMoveInTransit, o.Status(), func() error { return o.MoveInTransit(warehouseID) }); err != nil {
		return err
	}
	if warehouseID == nil {
		return nil
	}
	forward, err := f.forward()
	if err != nil {
		return err
	}
	return forward.RouteThrough(*warehouseID)
}

func (e *LifecycleEngine) sendOutForDelivery(f *Fulfillment, agent *actor.Actor) error {
	o := f.Order
	if err := agent.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("delivery agent", err)
	}
	if !agent.Is(actor.Logistics) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery agent is invalid", fmt.Errorf("%s is a %s, not a logistics actor", agent.ID(), agent.Role()))
	}
	return rejectOnError(OperationOutForDelivery, o.Status(), func() error { return o.SendOutForDelivery(agent.ID()) })
}

func (e *LifecycleEngine) assignWarehouse(f *Fulfillment, warehouseID *kernel.UUID) error {
	o := f.Order
	if warehouseID == nil {
		return errs.NewValueIsRequiredError("warehouse")
	}
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	if err := rejectOnError(OperationAssignWarehouse, o.Status(), func() error { return o.AssignWarehouse(*warehouseID) }); err != nil {
		return err
	}

	switch {
	case o.IsReturned():
		if f.Return == nil {
			return errs.NewObjectNotFoundError("return shipment", o.ID().String())
		}
		return f.Return.RouteThrough(*warehouseID)
	case f.Forward != nil:
		return f.Forward.RouteThrough(*warehouseID)
	default:
		forward, err := shipment.NewForwardShipment(kernel.NewUUID(), o.ID(), warehouseID)
		if err != nil {
			return err
		}
		f.Forward = forward
		return nil
	}
}

func (e *LifecycleEngine) initiateReturn(f *Fulfillment) error {
	o := f.Order
	from := o.Status()

	if err := o.InitiateReturn(); err != nil {
		if errors.Is(err, order.ErrAlreadyReturned) {
			return err
		}
		return NewTransitionRejectedError(OperationInitiateReturn, from, err)
	}

	ret, err := shipment.NewReturnShipment(kernel.NewUUID(), o.ID(), o.WarehouseID())
	if err != nil {
		return err
	}
	f.Return = ret
	return nil
}

func (e *LifecycleEngine) advanceReturn(f *Fulfillment, shipmentID *kernel.UUID) error {
	ret := f.Return
	if ret == nil || (shipmentID != nil && !ret.ID().IsEqual(*shipmentID)) {
		return NewTransitionRejectedError(OperationAdvanceReturn, addressed(f, shipmentID),
			errors.New("shipment is not an active return shipment"))
	}

	from := ret.Status()
	if err := ret.AdvanceReturn(); err != nil {
		return NewTransitionRejectedError(OperationAdvanceReturn, from, err)
	}
	if ret.Status() != shipment.ReturnedToVendor {
		return nil
	}

	o := f.Order
	if err := rejectOnError(OperationAdvanceReturn, o.Status(), o.CompleteReturn); err != nil {
		return err
	}
	return e.ledger.ReleaseAll(f.Products, ItemLines(o.Items()))
}

// addressed describes the shipment an advance_return was aimed at.
func addressed(f *Fulfillment, shipmentID *kernel.UUID) fmt.Stringer {
	if f.Forward != nil && shipmentID != nil && f.Forward.ID().IsEqual(*shipmentID) {
		return f.Forward.Status()
	}
	return f.Order.Status()
}

func rejectOnError(op Operation, from fmt.Stringer, transition func() error) error {
	if err := transition(); err != nil {
		return NewTransitionRejectedError(op, from, err)
	}
	return nil
}
