package services

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/pkg/errs"
)

// Line is a requested (product, quantity) pair of a cart.
type Line struct {
	ProductID kernel.UUID
	Quantity  int
}

// MergeLines validates cart lines and merges duplicates of one product,
// keeping the order in which products first appear.
func MergeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}

	merged := make([]Line, 0, len(lines))
	index := make(map[kernel.UUID]int, len(lines))
	for _, l := range lines {
		if err := l.ProductID.Validate(); err != nil {
			return nil, err
		}
		if l.Quantity <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"quantity is invalid", fmt.Errorf("%d is not greater than 0", l.Quantity))
		}
		if i, ok := index[l.ProductID]; ok {
			if merged[i].Quantity > math.MaxInt-l.Quantity {
				return nil, errs.NewValueIsOutOfRangeError("quantity", l.Quantity, 1, math.MaxInt-merged[i].Quantity)
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// SortedProductIDs returns the distinct product ids of lines in ascending
// byte order, the order product rows are locked in.
func SortedProductIDs(lines []Line) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(lines))
	seen := make(map[kernel.UUID]bool, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		av, bv := a.Value(), b.Value()
		return bytes.Compare(av[:], bv[:])
	})
	return ids
}

// ItemLines converts order items back to lines, e.g. to release their stock.
func ItemLines(items []*order.Item) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{ProductID: item.ProductID(), Quantity: item.Quantity()})
	}
	return lines
}

// InventoryLedger reserves and releases stock over a set of already loaded
// (and locked) products.
type InventoryLedger struct{}

func NewInventoryLedger() InventoryLedger {
	return InventoryLedger{}
}

// ReserveAll reserves every line or none: on the first failure the lines
// reserved so far are released again and the failure is returned.
func (InventoryLedger) ReserveAll(products map[kernel.UUID]*product.Product, lines []Line) error {
	reserved := make([]Line, 0, len(lines))

	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return compensate(products, reserved, errs.NewObjectNotFoundError("product", l.ProductID.String()))
		}
		if err := p.Reserve(l.Quantity); err != nil {
			return compensate(products, reserved, err)
		}
		reserved = append(reserved, l)
	}
	return nil
}

// ReleaseAll returns the quantity of every line to stock.
func (InventoryLedger) ReleaseAll(products map[kernel.UUID]*product.Product, lines []Line) error {
	for _, l := range lines {
		if _, ok := products[l.ProductID]; !ok {
			return errs.NewObjectNotFoundError("product", l.ProductID.String())
		}
	}
	return release(products, lines)
}

func compensate(products map[kernel.UUID]*product.Product, reserved []Line, cause error) error {
	if err := release(products, reserved); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func release(products map[kernel.UUID]*product.Product, lines []Line) error {
	var problems []error
	for _, l := range lines {
		if err := products[l.ProductID].Release(l.Quantity); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}
