// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the HTTP API and bypass the aggregates.
package queries

import (
	"errors"
	"strings"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrUserIsRequired = errs.NewValueIsRequiredError("user")
)

// GetOrderQuery reads one order on behalf of the user who placed it. An order
// owned by someone else is reported as not found.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, claims.Subject)
//	if err != nil {
//	    return err
//	}
//
//	details, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // respond 404
//	}
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  string

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, userID string) (GetOrderQuery, error) {
	var userErr error
	if strings.TrimSpace(userID) == "" {
		userErr = ErrUserIsRequired
	}

	if err := errors.Join(orderID.Validate(), userErr); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		userID:  userID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) UserID() string {
	return q.userID
}

// FoodItemResponse is one line of an order as shown to the customer.
type FoodItemResponse struct {
	ID    kernel.UUID
	Name  string
	Price kernel.Money
}

// GetOrderQueryResponse is the order read model: where it comes from, what it
// contains and how far along the engagement it is.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	RestaurantID          kernel.UUID
	RestaurantName        string
	FoodItems             []FoodItemResponse
	DistanceKm            float64
	TotalPrice            kernel.Money
	Status                string
	RestaurantEngaged     bool
	CourierEngaged        bool
	EstimatedDeliveryTime time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
