package product

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrInsufficientStock is the sentinel behind InsufficientStockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports a reservation larger than the available stock.
type InsufficientStockError struct {
	ProductID kernel.UUID
	Requested int
	Available int
}

func NewInsufficientStockError(productID kernel.UUID, requested int, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s, requested %d, available %d",
		ErrInsufficientStock, e.ProductID.String(), e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
