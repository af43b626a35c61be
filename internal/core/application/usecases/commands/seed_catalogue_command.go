package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/model/warehouse"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSeedCatalogueCommandIsNotConstructed = errors.New(
	"SeedCatalogueCommand must be created via NewSeedCatalogueCommand constructor",
)

// SeedCatalogueCommand onboards actors, warehouses and products in one go.
// Products may reference vendors registered by the same command.
type SeedCatalogueCommand struct { //nolint:recvcheck //using for validation
	actors     []*actor.Actor
	warehouses []*warehouse.Warehouse
	products   []*product.Product

	guard guard.ConstructorGuard
}

func NewSeedCatalogueCommand(
	actors []*actor.Actor,
	warehouses []*warehouse.Warehouse,
	products []*product.Product,
) (SeedCatalogueCommand, error) {
	if len(actors)+len(warehouses)+len(products) == 0 {
		return SeedCatalogueCommand{}, errs.NewValueIsRequiredError("catalogue")
	}

	var err error
	for i, a := range actors {
		if vErr := a.Validate(); vErr != nil {
			err = errors.Join(err, fmt.Errorf("actor %d: %w", i, vErr))
		}
	}
	for i, w := range warehouses {
		if vErr := w.Validate(); vErr != nil {
			err = errors.Join(err, fmt.Errorf("warehouse %d: %w", i, vErr))
		}
	}
	for i, p := range products {
		if vErr := p.Validate(); vErr != nil {
			err = errors.Join(err, fmt.Errorf("product %d: %w", i, vErr))
		}
	}
	if err != nil {
		return SeedCatalogueCommand{}, err
	}

	return SeedCatalogueCommand{
		actors:     actors,
		warehouses: warehouses,
		products:   products,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SeedCatalogueCommand) Validate() error {
	return c.guard.Validate(ErrSeedCatalogueCommandIsNotConstructed)
}

func (c SeedCatalogueCommand) Actors() []*actor.Actor {
	return c.actors
}

func (c SeedCatalogueCommand) Warehouses() []*warehouse.Warehouse {
	return c.warehouses
}

func (c SeedCatalogueCommand) Products() []*product.Product {
	return c.products
}
