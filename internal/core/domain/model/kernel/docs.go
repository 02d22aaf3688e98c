// Package kernel holds the value objects shared by the order, restaurant and
// food aggregates.
//
// The package includes:
//   - UUID: identifier for every aggregate and engagement job
//   - GeoPoint: latitude/longitude pair with haversine distance in kilometres
//   - Money: exact two-digit decimal amount backed by shopspring/decimal
//
// All of them are immutable and fail Validate when used as zero values.
package kernel
