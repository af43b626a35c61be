package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductRepository is the persistence side of the inventory ledger.
type ProductRepository interface {
	Add(ctx context.Context, aggregate *product.Product) error

	// Update writes stock changes, guarded by the product's version.
	Update(ctx context.Context, aggregate *product.Product) error

	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetForUpdate locks the rows of the given products in ascending id order
	// and returns the products found. Missing ids are simply absent.
	GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error)
}
