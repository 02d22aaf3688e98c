package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

var ErrEngageOrderCommandIsNotConstructed = errors.New(
	"EngageOrderCommand must be created via NewEngageOrderCommand constructor",
)

// EngageOrderCommand runs the engage phase for one order: the restaurant and
// the courier are reserved and the release phase is scheduled.
type EngageOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewEngageOrderCommand(orderID kernel.UUID) (EngageOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return EngageOrderCommand{}, err
	}

	return EngageOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c EngageOrderCommand) Validate() error {
	return c.guard.Validate(ErrEngageOrderCommandIsNotConstructed)
}

func (c EngageOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
