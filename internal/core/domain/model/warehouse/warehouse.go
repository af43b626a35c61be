// Package warehouse models the hubs shipments pass through.
package warehouse

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrWarehouseIsNotConstructed = errors.New("Warehouse must be created via NewWarehouse constructor")

// Warehouse is a named hub. Capacity is informational and is not enforced
// when shipments are routed through it.
type Warehouse struct {
	id       kernel.UUID
	name     string
	location string
	capacity int
	guard    guard.ConstructorGuard
}

func NewWarehouse(id kernel.UUID, name string, location string, capacity int) (*Warehouse, error) {
	w := &Warehouse{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		w.setID(id),
		w.setName(name),
		w.setLocation(location),
		w.setCapacity(capacity),
	); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Warehouse) Validate() error {
	if w == nil {
		return ErrWarehouseIsNotConstructed
	}
	return w.guard.Validate(ErrWarehouseIsNotConstructed)
}

func (w *Warehouse) ID() kernel.UUID {
	return w.id
}

func (w *Warehouse) Name() string {
	return w.name
}

func (w *Warehouse) Location() string {
	return w.location
}

func (w *Warehouse) Capacity() int {
	return w.capacity
}

// String renders "name (location)".
func (w *Warehouse) String() string {
	return w.name + " (" + w.location + ")"
}

func (w *Warehouse) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Warehouse) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	w.name = name
	return nil
}

func (w *Warehouse) setLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return errs.NewValueIsRequiredError("location")
	}
	w.location = location
	return nil
}

func (w *Warehouse) setCapacity(capacity int) error {
	if capacity < 0 {
		return errs.NewValueIsOutOfRangeError("capacity", capacity, 0, "unbounded")
	}
	w.capacity = capacity
	return nil
}
