// Package shipment contains the Shipment aggregate.
//
// An order has at most one forward shipment and at most one return shipment.
// The forward shipment is created Pending (when a warehouse is assigned before
// shipping) or straight at ship time, and ends Delivered. The return shipment
// starts in Return Initiated and moves strictly linearly to Returned to Vendor.
//
// Every status change records a StatusChangedEvent keyed by the order id.
package shipment
