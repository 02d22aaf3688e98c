// Package order implements the Order aggregate of the dispatch domain.
//
// The package includes:
//   - Order: a placed food order with its restaurant, items, price, distance and engagement state
//   - Status: the Pending -> Delivered state machine
//
// Key business rules:
//   - An order is created Pending with both engagement flags cleared
//   - Engage sets the restaurant and courier flags and is a no-op when repeated or after delivery
//   - Deliver clears the flags and makes the order Delivered, and is a no-op when repeated
//   - Price, distance, food items and estimated delivery time never change after creation
package order
