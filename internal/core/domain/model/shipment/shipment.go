package shipment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/ddd"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxTrackingNumberLength = 50

var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewForwardShipment, NewReturnShipment or RestoreShipment")

// Shipment is the physical movement of an order's goods. A forward shipment
// carries them to the customer; a return shipment carries them back to the
// vendor. The kind never changes after creation.
type Shipment struct {
	id             kernel.UUID
	orderID        kernel.UUID
	warehouseID    *kernel.UUID
	status         Status
	trackingNumber string
	isReturn       bool
	createdAt      time.Time
	version        int
	events         ddd.EventRecorder
	guard          guard.ConstructorGuard
}

// NewForwardShipment creates a Pending forward shipment, optionally routed
// through a warehouse.
func NewForwardShipment(id kernel.UUID, orderID kernel.UUID, warehouseID *kernel.UUID) (*Shipment, error) {
	return newShipment(id, orderID, warehouseID, Pending, "", false)
}

// NewReturnShipment creates a return shipment in Return Initiated with its own
// tracking number.
func NewReturnShipment(id kernel.UUID, orderID kernel.UUID, warehouseID *kernel.UUID) (*Shipment, error) {
	s, err := newShipment(id, orderID, warehouseID, ReturnInitiated, NewTrackingNumber(true), true)
	if err != nil {
		return nil, err
	}
	s.recordStatusChange(Unknown)
	return s, nil
}

func newShipment(
	id kernel.UUID,
	orderID kernel.UUID,
	warehouseID *kernel.UUID,
	status Status,
	trackingNumber string,
	isReturn bool,
) (*Shipment, error) {
	return RestoreShipment(id, orderID, warehouseID, status, trackingNumber, isReturn, time.Now().UTC(), 0)
}

// RestoreShipment rebuilds a persisted shipment.
func RestoreShipment(
	id kernel.UUID,
	orderID kernel.UUID,
	warehouseID *kernel.UUID,
	status Status,
	trackingNumber string,
	isReturn bool,
	createdAt time.Time,
	version int,
) (*Shipment, error) {
	s := &Shipment{
		isReturn:  isReturn,
		createdAt: createdAt,
		version:   version,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setOrderID(orderID),
		s.setWarehouseID(warehouseID),
		s.setStatus(status),
		s.setTrackingNumber(trackingNumber),
	); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) OrderID() kernel.UUID {
	return s.orderID
}

// WarehouseID returns nil when the shipment is not routed through a warehouse.
func (s *Shipment) WarehouseID() *kernel.UUID {
	return s.warehouseID
}

func (s *Shipment) Status() Status {
	return s.status
}

// TrackingNumber is empty until a forward shipment is shipped.
func (s *Shipment) TrackingNumber() string {
	return s.trackingNumber
}

func (s *Shipment) IsReturn() bool {
	return s.isReturn
}

func (s *Shipment) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Shipment) Version() int {
	return s.version
}

func (s *Shipment) DomainEvents() []ddd.DomainEvent {
	return s.events.DomainEvents()
}

func (s *Shipment) ClearDomainEvents() {
	s.events.ClearDomainEvents()
}

// Ship hands a Pending forward shipment to the carrier under trackingNumber.
func (s *Shipment) Ship(trackingNumber string) error {
	newStatus, err := s.status.Ship()
	if err != nil {
		return err
	}
	if strings.TrimSpace(trackingNumber) == "" {
		return errs.NewValueIsRequiredError("tracking number")
	}
	if err := s.setTrackingNumber(trackingNumber); err != nil {
		return err
	}
	s.changeStatus(newStatus)
	return nil
}

// Deliver completes a Shipped forward shipment.
func (s *Shipment) Deliver() error {
	newStatus, err := s.status.Deliver()
	if err != nil {
		return err
	}
	s.changeStatus(newStatus)
	return nil
}

// AdvanceReturn moves a return shipment one step along its linear flow.
// Forward shipments are rejected whatever their status.
func (s *Shipment) AdvanceReturn() error {
	if !s.isReturn {
		return errs.NewValueIsInvalidErrorWithCause(
			"shipment is invalid", fmt.Errorf("shipment %s is not a return shipment", s.id))
	}
	newStatus, err := s.status.AdvanceReturn()
	if err != nil {
		return err
	}
	s.changeStatus(newStatus)
	return nil
}

// RouteThrough sets the warehouse the shipment currently passes through.
func (s *Shipment) RouteThrough(warehouseID kernel.UUID) error {
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	s.warehouseID = &warehouseID
	return nil
}

func (s *Shipment) changeStatus(to Status) {
	from := s.status
	s.status = to
	s.recordStatusChange(from)
}

func (s *Shipment) recordStatusChange(from Status) {
	e := StatusChangedEvent{
		BaseEvent:      ddd.NewBaseEvent(EventShipmentStatusChanged, s.orderID.Value()),
		ShipmentID:     s.id.String(),
		OrderID:        s.orderID.String(),
		To:             s.status.String(),
		IsReturn:       s.isReturn,
		TrackingNumber: s.trackingNumber,
	}
	if from != Unknown {
		e.From = from.String()
	}
	if s.warehouseID != nil {
		e.WarehouseID = s.warehouseID.String()
	}
	s.events.Record(e)
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	s.orderID = orderID
	return nil
}

func (s *Shipment) setWarehouseID(warehouseID *kernel.UUID) error {
	if warehouseID == nil {
		s.warehouseID = nil
		return nil
	}
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	id := *warehouseID
	s.warehouseID = &id
	return nil
}

func (s *Shipment) setStatus(status Status) error {
	if err := status.ValidateFor(s.isReturn); err != nil {
		return err
	}
	s.status = status
	return nil
}

func (s *Shipment) setTrackingNumber(trackingNumber string) error {
	if len(trackingNumber) > maxTrackingNumberLength {
		return errs.NewValueIsOutOfRangeError("tracking number length", len(trackingNumber), 0, maxTrackingNumberLength)
	}
	s.trackingNumber = trackingNumber
	return nil
}
