package product

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct constructor")
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
)

// Product is a sellable item of a single vendor together with its stock level.
//
// Invariants:
//   - stock is never negative
//   - a failed Reserve leaves stock unchanged
//   - version grows by one on every persisted change and guards concurrent writers
type Product struct {
	id       kernel.UUID
	name     string
	vendorID kernel.UUID
	price    kernel.Money
	stock    int
	version  int
	guard    guard.ConstructorGuard
}

// NewProduct creates a product that has never been persisted.
func NewProduct(id kernel.UUID, name string, vendorID kernel.UUID, price kernel.Money, stock int) (*Product, error) {
	return RestoreProduct(id, name, vendorID, price, stock, 0)
}

// RestoreProduct rebuilds a persisted product, keeping its version.
func RestoreProduct(
	id kernel.UUID,
	name string,
	vendorID kernel.UUID,
	price kernel.Money,
	stock int,
	version int,
) (*Product, error) {
	p := &Product{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setVendorID(vendorID),
		p.setPrice(price),
		p.setStock(stock),
		p.setVersion(version),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) VendorID() kernel.UUID {
	return p.vendorID
}

func (p *Product) Price() kernel.Money {
	return p.price
}

func (p *Product) Stock() int {
	return p.stock
}

func (p *Product) Version() int {
	return p.version
}

// Reserve deducts quantity from stock. It fails with InsufficientStockError,
// leaving stock unchanged, when fewer units are available.
func (p *Product) Reserve(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if quantity > p.stock {
		return NewInsufficientStockError(p.id, quantity, p.stock)
	}
	p.stock -= quantity
	return nil
}

// Release returns quantity units to stock, after a cancellation, a completed
// return or a compensated reservation.
func (p *Product) Release(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	p.stock += quantity
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	return nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Product) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	p.vendorID = vendorID
	return nil
}

func (p *Product) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	p.price = price
	return nil
}

func (p *Product) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsOutOfRangeError("stock", stock, 0, "unbounded")
	}
	p.stock = stock
	return nil
}

func (p *Product) setVersion(version int) error {
	if version < 0 {
		return errs.NewValueIsOutOfRangeError("version", version, 0, "unbounded")
	}
	p.version = version
	return nil
}
