package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one order line. The unit price is a snapshot taken at placement;
// later catalogue price changes never reach existing orders.
type Item struct {
	id        kernel.UUID
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money
	guard     guard.ConstructorGuard
}

func NewItem(id kernel.UUID, productID kernel.UUID, quantity int, unitPrice kernel.Money) (*Item, error) {
	item := &Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	return item, nil
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) ProductID() kernel.UUID {
	return i.productID
}

func (i *Item) Quantity() int {
	return i.quantity
}

func (i *Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is unit price × quantity.
func (i *Item) Subtotal() kernel.Money {
	return i.unitPrice.Multiply(i.quantity)
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return err
	}
	i.unitPrice = unitPrice
	return nil
}
