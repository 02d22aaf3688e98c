package commands

import (
	"errors"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrUserIsRequired    = errors.New("user is required")
	ErrAddressIsRequired = errors.New("address is required")
)

// PlaceOrderCommand represents a customer placing a food order for delivery to
// a free-text address.
//
// An empty food item list is accepted here and rejected by the handler with
// ErrInvalidFoodSelection, after the address and the restaurant have been resolved.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(userID, "Knez Mihailova 6, Belgrade", foodIDs)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	userID      string
	address     string
	foodItemIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates that the user and the address are present.
func NewPlaceOrderCommand(userID string, address string, foodItemIDs []kernel.UUID) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setAddress(address),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	cmd.foodItemIDs = make([]kernel.UUID, len(foodItemIDs))
	copy(cmd.foodItemIDs, foodItemIDs)
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) UserID() string {
	return c.userID
}

// Address returns the delivery address as typed by the customer.
func (c PlaceOrderCommand) Address() string {
	return c.address
}

func (c PlaceOrderCommand) FoodItemIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.foodItemIDs))
	copy(out, c.foodItemIDs)
	return out
}

func (c *PlaceOrderCommand) setUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUserIsRequired
	}

	c.userID = userID
	return nil
}

func (c *PlaceOrderCommand) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}
