// Package ports defines the contracts between the dispatch core and its
// infrastructure: persistence, geocoding, the job queue and event publishing.
package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/restaurant"
)

// RestaurantRepository defines the persistence contract for the restaurant directory.
type RestaurantRepository interface {
	// Add persists a newly registered restaurant.
	Add(ctx context.Context, aggregate *restaurant.Restaurant) error

	// Update persists name, address and location changes of an existing restaurant.
	// Availability is changed only through Claim and Release.
	Update(ctx context.Context, aggregate *restaurant.Restaurant) error

	// Get retrieves a restaurant by identifier.
	// Returns *errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)

	// ListAvailable returns every restaurant whose availability flag is set,
	// ordered by registration time so that resolver ties are stable.
	ListAvailable(ctx context.Context) ([]*restaurant.Restaurant, error)

	// Claim atomically reserves an available restaurant for orderID.
	//
	// Business Rules:
	//   - succeeds only when the restaurant is available at the time of the write
	//   - returns true when orderID already holds the restaurant
	//   - returns false, without error, when another order won the race
	Claim(ctx context.Context, id kernel.UUID, orderID kernel.UUID) (bool, error)

	// Release makes the restaurant available again if, and only if, orderID holds it.
	// Returns false when another order (or none) holds it.
	Release(ctx context.Context, id kernel.UUID, orderID kernel.UUID) (bool, error)
}
