package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Accepted ──> Packaged ──> Shipped ──> In Transit ──> Out for Delivery ──> Delivered
//	   │                                                                                    │
//	   └──> Cancelled                         In Transit (returned) <── initiate return ────┘
//	                                                │
//	                                                └──> Returned to Vendor
//
// In Transit is shared by the forward and the return flow; the order's
// returned flag tells them apart. Cancelled, Delivered (once returned) and
// Returned to Vendor accept no further transition.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the status of a freshly placed order waiting for its vendor.
	Pending

	// Accepted means the vendor agreed to fulfil the order.
	Accepted

	// Packaged means the goods are packed and ready for pickup.
	Packaged

	// Shipped means the logistics team handed the package to the carrier.
	Shipped

	// InTransit means the package moves between hubs, forward or back to the vendor.
	InTransit

	// OutForDelivery means a delivery agent carries the package to the customer.
	OutForDelivery

	// Delivered means the customer received the goods.
	Delivered

	// Cancelled is final. Reserved stock has been released.
	Cancelled

	// ReturnedToVendor is final. The goods are back in stock.
	ReturnedToVendor
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		Pending:          "Pending",
		Accepted:         "Accepted",
		Packaged:         "Packaged",
		Shipped:          "Shipped",
		InTransit:        "In Transit",
		OutForDelivery:   "Out for Delivery",
		Delivered:        "Delivered",
		Cancelled:        "Cancelled",
		ReturnedToVendor: "Returned to Vendor",
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{
		Pending, Accepted, Packaged, Shipped, InTransit, OutForDelivery, Delivered, Cancelled, ReturnedToVendor,
	}
}

// StatusFromString parses a status name such as "Out for Delivery".
func StatusFromString(s string) (Status, error) {
	for _, status := range Statuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the declared statuses.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if s < Pending || s > ReturnedToVendor {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It is safe to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFinal reports whether no operation can move the order any further,
// returns aside.
func (s Status) IsFinal() bool {
	return s == Cancelled || s == ReturnedToVendor
}

func (s Status) Cancel() (Status, error) {
	return s.transition(Cancelled, "cancel", Pending)
}

func (s Status) Accept() (Status, error) {
	return s.transition(Accepted, "accept", Pending)
}

func (s Status) Pack() (Status, error) {
	return s.transition(Packaged, "pack", Accepted)
}

func (s Status) Ship() (Status, error) {
	return s.transition(Shipped, "ship", Packaged)
}

func (s Status) MoveInTransit() (Status, error) {
	return s.transition(InTransit, "move in transit", Shipped)
}

func (s Status) SendOutForDelivery() (Status, error) {
	return s.transition(OutForDelivery, "send out for delivery", InTransit)
}

func (s Status) Deliver() (Status, error) {
	return s.transition(Delivered, "deliver", OutForDelivery)
}

func (s Status) InitiateReturn() (Status, error) {
	return s.transition(InTransit, "initiate a return", Delivered)
}

func (s Status) CompleteReturn() (Status, error) {
	return s.transition(ReturnedToVendor, "complete a return", InTransit)
}

// ValidateAssignWarehouse allows warehouse routing from acceptance until the
// package is out for delivery.
func (s Status) ValidateAssignWarehouse() error {
	_, err := s.transition(s, "assign a warehouse", Accepted, Packaged, Shipped, InTransit)
	return err
}

func (s Status) transition(to Status, action string, from ...Status) (Status, error) {
	for _, allowed := range from {
		if s == allowed {
			return to, nil
		}
	}
	return 0, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action),
	)
}

// ValidateShipments checks the joint consistency of the order status with
// its forward and return shipment statuses. A nil status means the shipment
// does not exist.
//
// Business Rules:
//   - Pending, Accepted, Packaged, Cancelled: no forward shipment or a Pending one, no return
//   - Shipped, In Transit (forward), Out for Delivery: forward shipment Shipped, no return
//   - Delivered: forward shipment Delivered, no return
//   - In Transit (returned): forward Delivered, return Return Initiated or Returning
//   - Returned to Vendor: return shipment Returned to Vendor
func (s Status) ValidateShipments(isReturned bool, forward *shipment.Status, ret *shipment.Status) error {
	var ok bool

	switch {
	case s == Pending || s == Accepted || s == Packaged || s == Cancelled:
		ok = !isReturned && ret == nil && (forward == nil || *forward == shipment.Pending)
	case s == Shipped || s == OutForDelivery || (s == InTransit && !isReturned):
		ok = !isReturned && ret == nil && isStatus(forward, shipment.Shipped)
	case s == Delivered:
		ok = !isReturned && ret == nil && isStatus(forward, shipment.Delivered)
	case s == InTransit && isReturned:
		ok = isStatus(forward, shipment.Delivered) &&
			(isStatus(ret, shipment.ReturnInitiated) || isStatus(ret, shipment.Returning))
	case s == ReturnedToVendor:
		ok = isReturned && isStatus(ret, shipment.ReturnedToVendor)
	}

	if !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"shipment status is inconsistent",
			fmt.Errorf("order %s (returned: %t) cannot have forward shipment %s and return shipment %s",
				s, isReturned, describe(forward), describe(ret)),
		)
	}
	return nil
}

func isStatus(actual *shipment.Status, expected shipment.Status) bool {
	return actual != nil && *actual == expected
}

func describe(s *shipment.Status) string {
	if s == nil {
		return "none"
	}
	return s.String()
}
