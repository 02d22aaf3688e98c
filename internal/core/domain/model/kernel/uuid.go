package kernel

import (
	"fmt"

	"fooddispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString or UUIDFromRaw")

// UUID identifies orders, restaurants, food items and engagement jobs.
// It wraps github.com/google/uuid so the domain never handles the nil UUID
// by accident: the zero value fails Validate.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	parsed, err := kernel.UUIDFromString(c.Param("order_id"))
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical, braced, urn and hyphen-less forms.
// The nil UUID is rejected so parsed identifiers always validate.
//
// Parameters:
//   - s: textual UUID, typically a path parameter or a database column
//
// Returns:
//   - UUID: the parsed identifier
//   - error: wrapped parse error, or ErrUUIDIsNotConstructed for the nil UUID
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUIDFromRaw(id)
}

// UUIDFromRaw wraps a uuid.UUID read from persistence.
func UUIDFromRaw(id uuid.UUID) (UUID, error) {
	u := UUID{id: id}
	if err := u.Validate(); err != nil {
		return UUID{}, err
	}
	return u, nil
}

// String returns the canonical 36-character form.
func (u UUID) String() string {
	return u.id.String()
}

// Raw exposes the underlying value for adapters (GORM columns, JSON).
func (u UUID) Raw() uuid.UUID {
	return u.id
}

func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsZero reports whether u is the zero value, e.g. an unset optional reference.
func (u UUID) IsZero() bool {
	return u.id == uuid.Nil
}

// Validate fails with ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.IsZero() {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
