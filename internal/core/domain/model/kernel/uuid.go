package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, UUIDFromBytes or UUIDFromGoogle")

// UUID identifies an entity or aggregate. It wraps github.com/google/uuid so
// the domain never handles the nil UUID by accident.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random (version 4) UUID.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical, braced, urn or hyphen-less forms.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUIDFromGoogle(id)
}

// UUIDFromBytes builds a UUID from its 16-byte binary form.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUIDFromGoogle(id)
}

// UUIDFromGoogle wraps an already parsed uuid.UUID, rejecting the nil UUID.
// Repositories use it when mapping rows back to aggregates.
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	wrapped := UUID{id: id}
	if err := wrapped.Validate(); err != nil {
		return UUID{}, err
	}
	return wrapped, nil
}

// UUIDPtrFromGoogle maps a nullable column to an optional identifier.
func UUIDPtrFromGoogle(id *uuid.UUID) (*UUID, error) {
	if id == nil {
		return nil, nil
	}
	wrapped, err := UUIDFromGoogle(*id)
	if err != nil {
		return nil, err
	}
	return &wrapped, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Value returns the wrapped uuid.UUID for persistence and transport mapping.
func (u UUID) Value() uuid.UUID {
	return u.id
}

// IsEqual reports whether both identifiers hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// ValuePtr maps an optional identifier to a nullable column.
func ValuePtr(u *UUID) *uuid.UUID {
	if u == nil {
		return nil
	}
	v := u.id
	return &v
}

// SameUUID reports whether two optional identifiers are both set and equal.
func SameUUID(a *UUID, b UUID) bool {
	return a != nil && a.IsEqual(b)
}
