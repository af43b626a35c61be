package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Capabilities maps a role to the operations it may invoke. Admin is not
// listed: administrators may invoke every operation.
type Capabilities map[actor.Role][]Operation

// DefaultCapabilities is the capability table of the marketplace.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		actor.Customer: {
			OperationPlaceOrder,
			OperationCancel,
			OperationInitiateReturn,
		},
		actor.Vendor: {
			OperationAccept,
			OperationPack,
		},
		actor.Logistics: {
			OperationShip,
			OperationMoveInTransit,
			OperationOutForDelivery,
			OperationDeliver,
			OperationAssignWarehouse,
			OperationInitiateReturn,
			OperationAdvanceReturn,
		},
	}
}

// AccessPolicy decides whether an actor may invoke an operation on an order.
// It checks the role first, then ownership of the order.
//
// Ownership rules:
//   - cancel: the order's customer
//   - accept, pack: the order's vendor
//   - ship, assign_warehouse: the order's logistics team, or anyone while unassigned
//   - move_in_transit, out_for_delivery, advance_return: the order's logistics team
//   - deliver: the order's delivery agent
//   - initiate_return: the order's customer or its logistics team
//
// Admin bypasses both checks.
type AccessPolicy struct {
	allowed map[actor.Role]map[Operation]bool
}

// NewAccessPolicy validates the capability table: every role and operation
// must be known, and every operation must be reachable by a non-admin role.
func NewAccessPolicy(capabilities Capabilities) (*AccessPolicy, error) {
	allowed := make(map[actor.Role]map[Operation]bool, len(capabilities))
	reachable := make(map[Operation]bool)
	var problems []error

	for role, ops := range capabilities {
		if err := role.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		if role == actor.Admin {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"capabilities are invalid", errors.New("admin capabilities are implicit")))
			continue
		}
		allowed[role] = make(map[Operation]bool, len(ops))
		for _, op := range ops {
			if err := op.Validate(); err != nil {
				problems = append(problems, err)
				continue
			}
			allowed[role][op] = true
			reachable[op] = true
		}
	}

	for _, op := range Operations() {
		if !reachable[op] {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"capabilities are invalid", fmt.Errorf("%s is not granted to any role", op)))
		}
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return &AccessPolicy{allowed: allowed}, nil
}

// Can reports whether the role may invoke the operation, ownership aside.
func (p *AccessPolicy) Can(role actor.Role, op Operation) bool {
	if role == actor.Admin {
		return op.Validate() == nil
	}
	return p.allowed[role][op]
}

// Authorize checks the role permission and then the ownership rule of op.
// o may be nil only for OperationPlaceOrder.
func (p *AccessPolicy) Authorize(a *actor.Actor, op Operation, o *order.Order) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := op.Validate(); err != nil {
		return err
	}
	if !p.Can(a.Role(), op) {
		return NewNotAuthorizedError(a, op, fmt.Sprintf("role %s is not allowed", a.Role()))
	}
	if a.Is(actor.Admin) || op == OperationPlaceOrder {
		return nil
	}
	if err := o.Validate(); err != nil {
		return err
	}

	if !owns(a, op, o) {
		return NewNotAuthorizedError(a, op, fmt.Sprintf("order %s belongs to someone else", o.ID()))
	}
	return nil
}

func owns(a *actor.Actor, op Operation, o *order.Order) bool {
	id := a.ID()

	switch op {
	case OperationCancel:
		return o.CustomerID().IsEqual(id)
	case OperationAccept, OperationPack:
		return o.VendorID().IsEqual(id)
	case OperationShip, OperationAssignWarehouse:
		return o.LogisticsTeamID() == nil || kernel.SameUUID(o.LogisticsTeamID(), id)
	case OperationMoveInTransit, OperationOutForDelivery, OperationAdvanceReturn:
		return kernel.SameUUID(o.LogisticsTeamID(), id)
	case OperationDeliver:
		return kernel.SameUUID(o.DeliveryAgentID(), id)
	case OperationInitiateReturn:
		return o.CustomerID().IsEqual(id) || kernel.SameUUID(o.LogisticsTeamID(), id)
	default:
		return false
	}
}
