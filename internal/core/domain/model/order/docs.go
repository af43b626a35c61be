// Package order provides the Order aggregate of the fulfillment lifecycle.
//
// An order is placed by a customer for the products of a single vendor,
// accepted and packed by that vendor, shipped and moved by a logistics team,
// delivered by a delivery agent and optionally returned once. Each transition
// is a method on Order backed by a pure transition on Status; the methods never
// touch stock or shipments, which the lifecycle engine coordinates.
//
// Example usage:
//
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, vendorID, items)
//	if err != nil {
//	    return err
//	}
//	if err := o.Accept(); err != nil {
//	    // not Pending any more
//	}
//
// Every status change records a StatusChangedEvent; placement records a
// PlacedEvent. Events are drained into the outbox when the unit of work commits.
package order
