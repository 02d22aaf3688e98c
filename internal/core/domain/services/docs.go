// Package services provides domain services that work across several
// aggregates of the dispatch domain.
//
// The package includes:
//   - NearestRestaurantResolver: geodesic nearest-neighbour selection over available restaurants
package services
