package services

import (
	"math"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/restaurant"
)

// NearestRestaurantResolver is a domain service that picks the restaurant
// closest to a delivery point by great-circle distance.
//
// Business rules:
//   - Candidates are expected to be pre-filtered to available restaurants;
//     availability is not re-checked here
//   - Candidates that are nil, not constructed or not yet geocoded are skipped
//   - Selection is a strict minimum, so on equal distances the first candidate wins
//   - The resolver never mutates candidates and never calls external services
//
// Example usage:
//
//	resolver := services.NewNearestRestaurantResolver()
//	nearest, km := resolver.Select(userPoint, available)
//	if nearest == nil {
//	    // no restaurant can serve this address, km is +Inf
//	}
type NearestRestaurantResolver struct{}

// NewNearestRestaurantResolver creates a new NearestRestaurantResolver instance.
func NewNearestRestaurantResolver() NearestRestaurantResolver {
	return NearestRestaurantResolver{}
}

// Select returns the nearest candidate and its distance in kilometres.
//
// Parameters:
//   - point: the geocoded delivery address
//   - candidates: available restaurants, in directory order
//
// Returns:
//   - *restaurant.Restaurant: the nearest candidate, or nil when none qualifies
//   - float64: distance to it in kilometres, or +Inf when none qualifies
func (NearestRestaurantResolver) Select(
	point kernel.GeoPoint,
	candidates []*restaurant.Restaurant,
) (*restaurant.Restaurant, float64) {
	var (
		nearest      *restaurant.Restaurant
		bestDistance = math.Inf(1)
	)

	for _, r := range candidates {
		if r.Validate() != nil {
			continue
		}

		km, err := r.DistanceKm(point)
		if err != nil {
			continue
		}

		if km < bestDistance {
			bestDistance = km
			nearest = r
		}
	}

	return nearest, bestDistance
}
