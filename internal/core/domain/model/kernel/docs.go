// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain.
//
// The package includes:
//   - UUID: identifier of orders, items, shipments, products, warehouses and actors
//   - Money: a non-negative decimal amount with two fractional digits
//
// Zero values of both types are invalid; use the constructors.
package kernel
