package commands

import (
	"errors"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrRegisterRestaurantCommandIsNotConstructed = errors.New(
		"RegisterRestaurantCommand must be created via NewRegisterRestaurantCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
)

// RegisterRestaurantCommand adds a restaurant to the directory. When location
// is nil the handler geocodes the address before saving.
type RegisterRestaurantCommand struct { //nolint:recvcheck //using for validation
	name     string
	address  string
	location *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewRegisterRestaurantCommand(
	name string,
	address string,
	location *kernel.GeoPoint,
) (RegisterRestaurantCommand, error) {
	cmd := RegisterRestaurantCommand{guard: guard.NewConstructorGuard()}

	var nameErr, addressErr, locationErr error
	if strings.TrimSpace(name) == "" {
		nameErr = ErrNameIsRequired
	}
	if strings.TrimSpace(address) == "" {
		addressErr = ErrAddressIsRequired
	}
	if location != nil {
		locationErr = location.Validate()
	}

	if err := errors.Join(nameErr, addressErr, locationErr); err != nil {
		return RegisterRestaurantCommand{}, err
	}

	cmd.name = strings.TrimSpace(name)
	cmd.address = strings.TrimSpace(address)
	if location != nil {
		loc := *location
		cmd.location = &loc
	}
	return cmd, nil
}

func (c RegisterRestaurantCommand) Validate() error {
	return c.guard.Validate(ErrRegisterRestaurantCommandIsNotConstructed)
}

func (c RegisterRestaurantCommand) Name() string {
	return c.name
}

func (c RegisterRestaurantCommand) Address() string {
	return c.address
}

// Location returns the supplied coordinates, or nil when they must be geocoded.
func (c RegisterRestaurantCommand) Location() *kernel.GeoPoint {
	return c.location
}
