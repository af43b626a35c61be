package actor

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is a user acting on orders: a customer, a vendor, a logistics team
// member (delivery agents included) or an administrator.
type Actor struct {
	id            kernel.UUID
	name          string
	role          Role
	isConstructed bool
}

// NewActor validates and builds an Actor. Accounts are managed elsewhere; the
// fulfillment service only needs identity and role.
func NewActor(id kernel.UUID, name string, role Role) (*Actor, error) {
	a := &Actor{isConstructed: true}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setRole(role),
	); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Actor) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrActorIsNotConstructed
	}
	return nil
}

func (a *Actor) ID() kernel.UUID {
	return a.id
}

func (a *Actor) Name() string {
	return a.name
}

func (a *Actor) Role() Role {
	return a.role
}

// Is reports whether the actor holds the given role.
func (a *Actor) Is(role Role) bool {
	return a.role == role
}

func (a *Actor) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Actor) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}

func (a *Actor) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	a.role = role
	return nil
}
