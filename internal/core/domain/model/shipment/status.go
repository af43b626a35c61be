package shipment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the state of a shipment. Forward and return shipments use
// disjoint subsets of the values.
//
// Forward:
//
//	Pending ──> Shipped ──> Delivered
//
// Return:
//
//	Return Initiated ──> Returning ──> Returned to Vendor
type Status int

const (
	Unknown Status = iota
	Pending
	Shipped
	Delivered
	ReturnInitiated
	Returning
	ReturnedToVendor
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		Pending:          "Pending",
		Shipped:          "Shipped",
		Delivered:        "Delivered",
		ReturnInitiated:  "Return Initiated",
		Returning:        "Returning",
		ReturnedToVendor: "Returned to Vendor",
	}
}

// StatusFromString parses the persisted status name.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s < Pending || s > ReturnedToVendor {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsReturnStatus reports whether the status belongs to the return flow.
func (s Status) IsReturnStatus() bool {
	return s == ReturnInitiated || s == Returning || s == ReturnedToVendor
}

// ValidateFor checks the status belongs to the flow of the shipment kind.
func (s Status) ValidateFor(isReturn bool) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.IsReturnStatus() != isReturn {
		kind := "forward"
		if isReturn {
			kind = "return"
		}
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%s is not a valid status for a %s shipment", s, kind))
	}
	return nil
}

// Ship moves a forward shipment from Pending to Shipped.
func (s Status) Ship() (Status, error) {
	if s != Pending {
		return 0, invalidTransition(s, "ship")
	}
	return Shipped, nil
}

// Deliver moves a forward shipment from Shipped to Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Shipped {
		return 0, invalidTransition(s, "deliver")
	}
	return Delivered, nil
}

// AdvanceReturn moves a return shipment one step forward. Returned to Vendor
// is final.
func (s Status) AdvanceReturn() (Status, error) {
	switch s {
	case ReturnInitiated:
		return Returning, nil
	case Returning:
		return ReturnedToVendor, nil
	default:
		return 0, invalidTransition(s, "advance")
	}
}

func invalidTransition(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action),
	)
}
