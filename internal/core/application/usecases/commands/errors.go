package commands

import (
	"errors"
	"fmt"

	"fooddispatch/internal/core/ports"
)

// Dispatch failures. Handlers wrap them with details, callers match them with errors.Is.
var (
	// ErrAddressUnresolvable means the geocoder found no coordinates for the address.
	ErrAddressUnresolvable = errors.New("address could not be resolved")
	// ErrNoRestaurantAvailable means no available, geocoded restaurant could be reserved.
	ErrNoRestaurantAvailable = errors.New("no restaurant available near the specified location")
	// ErrInvalidFoodSelection means none of the requested food items exist.
	ErrInvalidFoodSelection = errors.New("invalid or empty food item list")
	// ErrOrderNotFound means an engagement phase ran for an order that does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// geocodingError keeps provider outages apart from unresolvable addresses:
// only ports.ErrAddressNotResolved is the caller's fault.
func geocodingError(err error) error {
	if errors.Is(err, ports.ErrAddressNotResolved) {
		return fmt.Errorf("%w: %w", ErrAddressUnresolvable, err)
	}
	return fmt.Errorf("geocoding address: %w", err)
}
