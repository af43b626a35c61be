// Package product holds the Product aggregate, the unit of the inventory
// ledger. Stock changes only through Reserve and Release; both validate the
// quantity and leave the product untouched when they fail.
package product
