package actor

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Role is the closed set of roles an acting user can hold.
type Role int

const (
	// UnknownRole is the zero value and never valid.
	UnknownRole Role = iota
	Customer
	Vendor
	Logistics
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "Unknown",
		Customer:    "Customer",
		Vendor:      "Vendor",
		Logistics:   "Logistics",
		Admin:       "Admin",
	}
}

// Roles lists every valid role in declaration order.
func Roles() []Role {
	return []Role{Customer, Vendor, Logistics, Admin}
}

// RoleFromString parses the role names stored by the accounts service.
func RoleFromString(s string) (Role, error) {
	for _, r := range Roles() {
		if r.String() == s {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%q is not a known role", s))
}

func (r Role) Validate() error {
	if r < Customer || r > Admin {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "Unknown"
}
