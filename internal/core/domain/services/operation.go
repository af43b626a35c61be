package services

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Operation names a lifecycle operation an actor can invoke.
type Operation int

const (
	UnknownOperation Operation = iota
	OperationPlaceOrder
	OperationCancel
	OperationAccept
	OperationPack
	OperationShip
	OperationMoveInTransit
	OperationOutForDelivery
	OperationDeliver
	OperationAssignWarehouse
	OperationInitiateReturn
	OperationAdvanceReturn
)

func getOperationStrings() map[Operation]string {
	return map[Operation]string{
		UnknownOperation:         "unknown",
		OperationPlaceOrder:      "place_order",
		OperationCancel:          "cancel",
		OperationAccept:          "accept",
		OperationPack:            "pack",
		OperationShip:            "ship",
		OperationMoveInTransit:   "move_in_transit",
		OperationOutForDelivery:  "out_for_delivery",
		OperationDeliver:         "deliver",
		OperationAssignWarehouse: "assign_warehouse",
		OperationInitiateReturn:  "initiate_return",
		OperationAdvanceReturn:   "advance_return",
	}
}

// Operations lists every known operation.
func Operations() []Operation {
	return []Operation{
		OperationPlaceOrder,
		OperationCancel,
		OperationAccept,
		OperationPack,
		OperationShip,
		OperationMoveInTransit,
		OperationOutForDelivery,
		OperationDeliver,
		OperationAssignWarehouse,
		OperationInitiateReturn,
		OperationAdvanceReturn,
	}
}

// OperationFromString parses the wire name of an operation, e.g. "out_for_delivery".
func OperationFromString(s string) (Operation, error) {
	for _, op := range Operations() {
		if op.String() == s {
			return op, nil
		}
	}
	return UnknownOperation, errs.NewValueIsInvalidErrorWithCause(
		"operation is invalid", fmt.Errorf("%q is not a known operation", s))
}

func (o Operation) Validate() error {
	if o < OperationPlaceOrder || o > OperationAdvanceReturn {
		return errs.NewValueIsInvalidErrorWithCause("operation is invalid", fmt.Errorf("%d is not a known operation", o))
	}
	return nil
}

func (o Operation) String() string {
	if s, ok := getOperationStrings()[o]; ok {
		return s
	}
	return "unknown"
}

// TouchesStock reports whether the operation may release reserved stock, so
// the caller knows to lock the order's product rows.
func (o Operation) TouchesStock() bool {
	return o == OperationCancel || o == OperationAdvanceReturn
}
