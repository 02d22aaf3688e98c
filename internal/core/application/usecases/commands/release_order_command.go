package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var ErrReleaseOrderCommandIsNotConstructed = errors.New(
	"ReleaseOrderCommand must be created via NewReleaseOrderCommand constructor",
)

// ReleaseOrderCommand runs the release phase for one order: the restaurant
// becomes available again and the order is delivered.
type ReleaseOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReleaseOrderCommand(orderID kernel.UUID) (ReleaseOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReleaseOrderCommand{}, err
	}

	return ReleaseOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseOrderCommand) Validate() error {
	return c.guard.Validate(ErrReleaseOrderCommandIsNotConstructed)
}

func (c ReleaseOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
