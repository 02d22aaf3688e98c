// Package restaurant implements the Restaurant aggregate of the restaurant
// directory.
//
// Key business rules:
//   - A restaurant may be registered before its address is geocoded
//   - An engaged restaurant is unavailable and remembers the order holding it
//   - Engage is idempotent for the holding order and fails for any other order
//   - Release only succeeds for the holding order
package restaurant
