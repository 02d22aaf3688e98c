package ports

import (
	"context"
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
)

// ErrAddressNotResolved is returned by a Geocoder that reached its provider
// but got no usable coordinates back for the address.
var ErrAddressNotResolved = errors.New("address could not be resolved")

// Geocoder turns a free-text address into coordinates.
type Geocoder interface {
	// Resolve returns the coordinates of the best match for address.
	// Transport failures are returned as-is; an empty answer is ErrAddressNotResolved.
	Resolve(ctx context.Context, address string) (kernel.GeoPoint, error)
}
