package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/ddd"
	"fulfillment/internal/pkg/errs"
)

// Order is the aggregate root of the fulfillment lifecycle. It owns its items,
// its status and the identities of everyone responsible for it.
//
// Order follows these invariants:
//   - Must have a valid identifier, customer and vendor
//   - Holds at least one item; the total price is always Σ unit price × quantity
//   - Status transitions follow the lifecycle described on Status
//   - A delivery agent is set from Out for Delivery onwards
//   - The returned flag is sticky: an order is returned at most once
//   - Can only be created through NewOrder or RestoreOrder
//
// Shipments are separate aggregates. The lifecycle engine keeps the two in
// step and checks ValidateShipments after every transition.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID is the customer who placed the order
	customerID kernel.UUID

	// vendorID is the single vendor selling every item of the order
	vendorID kernel.UUID

	// logisticsTeamID is the team responsible for shipping (nil until claimed)
	logisticsTeamID *kernel.UUID

	// deliveryAgentID is the logistics actor delivering the last mile
	deliveryAgentID *kernel.UUID

	// warehouseID is the hub the order currently passes through
	warehouseID *kernel.UUID

	items      []*Item
	totalPrice kernel.Money
	status     Status
	isReturned bool
	placedAt   time.Time

	// version is the optimistic concurrency token of the persisted row
	version int

	events        ddd.EventRecorder
	isConstructed bool
}

// Snapshot carries the persisted state of an order for RestoreOrder.
type Snapshot struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	VendorID        kernel.UUID
	LogisticsTeamID *kernel.UUID
	DeliveryAgentID *kernel.UUID
	WarehouseID     *kernel.UUID
	Items           []*Item
	TotalPrice      kernel.Money
	Status          Status
	IsReturned      bool
	PlacedAt        time.Time
	Version         int
}

// NewOrder places a new order in Pending status and records an OrderPlaced event.
// Stock must already be reserved for every item; the order only snapshots prices.
//
// Example:
//
//	item, _ := order.NewItem(kernel.NewUUID(), productID, 2, price)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, vendorID, []*order.Item{item})
//	if errors.Is(err, order.ErrEmptyCart) {
//	    // nothing to order
//	}
func NewOrder(id kernel.UUID, customerID kernel.UUID, vendorID kernel.UUID, items []*Item) (*Order, error) {
	o := &Order{
		status:        Pending,
		placedAt:      time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setVendorID(vendorID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}
	o.totalPrice = o.computeTotal()

	o.recordPlaced()
	return o, nil
}

// RestoreOrder reconstructs an Order from persistent storage. The stored total
// must match the items, and the optional references must fit the status.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		placedAt:      s.PlacedAt,
		isReturned:    s.IsReturned,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setVendorID(s.VendorID),
		o.setOptionalID(&o.logisticsTeamID, s.LogisticsTeamID),
		o.setOptionalID(&o.deliveryAgentID, s.DeliveryAgentID),
		o.setOptionalID(&o.warehouseID, s.WarehouseID),
		o.setItems(s.Items),
		o.setStatus(s.Status),
		o.setVersion(s.Version),
	); err != nil {
		return nil, err
	}

	if err := o.checkTotal(s.TotalPrice); err != nil {
		return nil, err
	}
	o.totalPrice = s.TotalPrice

	if err := o.checkReferences(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) VendorID() kernel.UUID {
	return o.vendorID
}

// LogisticsTeamID returns nil while no team has claimed the order.
func (o *Order) LogisticsTeamID() *kernel.UUID {
	return o.logisticsTeamID
}

// DeliveryAgentID returns nil before the order is out for delivery.
func (o *Order) DeliveryAgentID() *kernel.UUID {
	return o.deliveryAgentID
}

// WarehouseID returns the current hub, nil when none was assigned.
func (o *Order) WarehouseID() *kernel.UUID {
	return o.warehouseID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

func (o *Order) Status() Status {
	return o.status
}

// IsReturned reports whether a return was ever initiated for the order.
func (o *Order) IsReturned() bool {
	return o.isReturned
}

func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) DomainEvents() []ddd.DomainEvent {
	return o.events.DomainEvents()
}

func (o *Order) ClearDomainEvents() {
	o.events.ClearDomainEvents()
}

// Cancel moves a Pending order to Cancelled. Releasing stock is the caller's job.
func (o *Order) Cancel() error {
	return o.apply(o.status.Cancel)
}

func (o *Order) Accept() error {
	return o.apply(o.status.Accept)
}

func (o *Order) Pack() error {
	return o.apply(o.status.Pack)
}

// ClaimLogistics assigns the order to a logistics team. Claiming an order the
// team already holds is a no-op.
func (o *Order) ClaimLogistics(teamID kernel.UUID) error {
	if err := teamID.Validate(); err != nil {
		return err
	}
	if o.logisticsTeamID != nil {
		if o.logisticsTeamID.IsEqual(teamID) {
			return nil
		}
		return ErrLogisticsTeamAlreadyAssigned
	}
	o.logisticsTeamID = &teamID
	return nil
}

func (o *Order) Ship() error {
	return o.apply(o.status.Ship)
}

// MoveInTransit moves a Shipped order to In Transit, optionally through a warehouse.
func (o *Order) MoveInTransit(warehouseID *kernel.UUID) error {
	if warehouseID != nil {
		if err := warehouseID.Validate(); err != nil {
			return err
		}
	}
	if err := o.apply(o.status.MoveInTransit); err != nil {
		return err
	}
	if warehouseID != nil {
		id := *warehouseID
		o.warehouseID = &id
	}
	return nil
}

// SendOutForDelivery hands a forward In Transit order to a delivery agent.
func (o *Order) SendOutForDelivery(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.isReturned {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", errors.New("a returned order cannot go out for delivery"))
	}
	if err := o.apply(o.status.SendOutForDelivery); err != nil {
		return err
	}
	o.deliveryAgentID = &agentID
	return nil
}

func (o *Order) Deliver() error {
	return o.apply(o.status.Deliver)
}

// AssignWarehouse sets the hub the order passes through without changing status.
func (o *Order) AssignWarehouse(warehouseID kernel.UUID) error {
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	if err := o.status.ValidateAssignWarehouse(); err != nil {
		return err
	}
	o.warehouseID = &warehouseID
	return nil
}

// InitiateReturn moves a Delivered order back to In Transit and marks it
// returned. It fails with ErrAlreadyReturned on the second request and with
// ErrNotDeliveredYet before delivery.
func (o *Order) InitiateReturn() error {
	if o.isReturned {
		return ErrAlreadyReturned
	}
	if o.status != Delivered {
		return ErrNotDeliveredYet
	}
	o.isReturned = true
	return o.apply(o.status.InitiateReturn)
}

// CompleteReturn closes a returned order once its goods reach the vendor.
func (o *Order) CompleteReturn() error {
	if !o.isReturned {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", errors.New("order has no return in progress"))
	}
	return o.apply(o.status.CompleteReturn)
}

// ValidateShipments checks the order against its current shipments. Either
// may be nil.
func (o *Order) ValidateShipments(forward *shipment.Shipment, ret *shipment.Shipment) error {
	return o.status.ValidateShipments(o.isReturned, statusOf(forward), statusOf(ret))
}

func statusOf(s *shipment.Shipment) *shipment.Status {
	if s == nil {
		return nil
	}
	st := s.Status()
	return &st
}

func (o *Order) apply(transition func() (Status, error)) error {
	newStatus, err := transition()
	if err != nil {
		return err
	}

	from := o.status
	o.status = newStatus
	o.events.Record(StatusChangedEvent{
		BaseEvent:  ddd.NewBaseEvent(EventOrderStatusChanged, o.id.Value()),
		OrderID:    o.id.String(),
		From:       from.String(),
		To:         newStatus.String(),
		IsReturned: o.isReturned,
	})
	return nil
}

func (o *Order) recordPlaced() {
	items := make([]PlacedItem, 0, len(o.items))
	for _, item := range o.items {
		items = append(items, PlacedItem{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
		})
	}
	o.events.Record(PlacedEvent{
		BaseEvent:  ddd.NewBaseEvent(EventOrderPlaced, o.id.Value()),
		OrderID:    o.id.String(),
		CustomerID: o.customerID.String(),
		VendorID:   o.vendorID.String(),
		Items:      items,
		TotalPrice: o.totalPrice.String(),
	})
}

func (o *Order) computeTotal() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o *Order) checkTotal(stored kernel.Money) error {
	if err := stored.Validate(); err != nil {
		return err
	}
	if computed := o.computeTotal(); !computed.IsEqual(stored) {
		return errs.NewValueIsInvalidErrorWithCause(
			"total price is invalid",
			fmt.Errorf("stored %s does not match items total %s", stored, computed),
		)
	}
	return nil
}

func (o *Order) checkReferences() error {
	needsAgent := o.status == OutForDelivery || o.status == Delivered ||
		(o.isReturned && o.status != Cancelled)
	if needsAgent && o.deliveryAgentID == nil {
		return errs.NewValueIsRequiredErrorWithCause(
			"delivery agent", fmt.Errorf("%s order must have a delivery agent", o.status))
	}
	if o.isReturned && o.status != InTransit && o.status != ReturnedToVendor {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%s is not a valid status for a returned order", o.status))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	o.vendorID = vendorID
	return nil
}

func (o *Order) setOptionalID(target **kernel.UUID, id *kernel.UUID) error {
	if id == nil {
		*target = nil
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	v := *id
	*target = &v
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]*Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setVersion(version int) error {
	if version < 0 {
		return errs.NewValueIsOutOfRangeError("version", version, 0, "unbounded")
	}
	o.version = version
	return nil
}
