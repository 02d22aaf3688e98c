package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// DefaultEngagementWindow is how long a restaurant and a courier stay reserved
// for an order when no other window is configured.
const DefaultEngagementWindow = 15 * time.Minute

var (
	// ErrOrderIsNotConstructed is returned by Validate on orders not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrUserIsRequired      = errs.NewValueIsRequiredError("user")
	ErrFoodItemsAreEmpty   = errs.NewValueIsRequiredError("food items")
	ErrWindowIsNotPositive = errs.NewValueIsInvalidError("engagement window")
)

// Order is the aggregate root for a placed food order. It records which
// restaurant was chosen, how far it is from the delivery address, what was
// ordered and for how much, and how far the order has progressed through its
// engagement window.
//
// Order follows these invariants:
//   - user, restaurant and food item references are set at creation and never change
//   - total price and distance are computed once at creation and never change
//   - estimated delivery time is creation time plus the engagement window
//   - Delivered orders have both engagement flags cleared
//
// Only the engagement job mutates an order after creation, through Engage and Deliver.
type Order struct {
	id                    kernel.UUID
	userID                string
	restaurantID          kernel.UUID
	foodItemIDs           []kernel.UUID
	totalPrice            kernel.Money
	distanceKm            float64
	status                Status
	restaurantEngaged     bool
	courierEngaged        bool
	estimatedDeliveryTime time.Time
	createdAt             time.Time
	updatedAt             time.Time
	events                []Event
	guard                 guard.ConstructorGuard
}

// NewOrder creates a Pending order with both engagement flags cleared.
//
// Parameters:
//   - id: identifier of the new order
//   - userID: identity of the customer as issued by the users service
//   - restaurantID: the restaurant selected by the nearest-restaurant resolver
//   - foodItemIDs: resolved catalog items (at least one)
//   - totalPrice: exact sum of the item prices
//   - distanceKm: great-circle distance from the delivery address to the restaurant
//   - now: creation instant
//   - window: engagement window used for the estimated delivery time
//
// Returns:
//   - *Order: the created order
//   - error: joined validation errors for every invalid argument
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), "42", restaurant.ID(), ids, total, 1.36,
//	    time.Now(), order.DefaultEngagementWindow)
func NewOrder(
	id kernel.UUID,
	userID string,
	restaurantID kernel.UUID,
	foodItemIDs []kernel.UUID,
	totalPrice kernel.Money,
	distanceKm float64,
	now time.Time,
	window time.Duration,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	var windowErr error
	if window <= 0 {
		windowErr = ErrWindowIsNotPositive
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setRestaurantID(restaurantID),
		o.setFoodItemIDs(foodItemIDs),
		o.setTotalPrice(totalPrice),
		o.setDistanceKm(distanceKm),
		windowErr,
	); err != nil {
		return nil, err
	}

	o.estimatedDeliveryTime = now.Add(window)
	o.record(EventPlaced, now)
	return o, nil
}

// Snapshot carries every persisted attribute of an order. Repositories fill it
// from storage and hand it to RestoreOrder.
type Snapshot struct {
	ID                    kernel.UUID
	UserID                string
	RestaurantID          kernel.UUID
	FoodItemIDs           []kernel.UUID
	TotalPrice            kernel.Money
	DistanceKm            float64
	Status                Status
	RestaurantEngaged     bool
	CourierEngaged        bool
	EstimatedDeliveryTime time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RestoreOrder rebuilds an order from storage. It applies the same field
// validation as NewOrder and additionally checks that the status is known and
// that a Delivered order carries no engagement.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		restaurantEngaged:     s.RestaurantEngaged,
		courierEngaged:        s.CourierEngaged,
		estimatedDeliveryTime: s.EstimatedDeliveryTime,
		createdAt:             s.CreatedAt,
		updatedAt:             s.UpdatedAt,
		guard:                 guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setUserID(s.UserID),
		o.setRestaurantID(s.RestaurantID),
		o.setFoodItemIDs(s.FoodItemIDs),
		o.setTotalPrice(s.TotalPrice),
		o.setDistanceKm(s.DistanceKm),
		o.setStatus(s.Status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) UserID() string {
	return o.userID
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// FoodItemIDs returns a copy; the order's own slice is immutable.
func (o *Order) FoodItemIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(o.foodItemIDs))
	copy(ids, o.foodItemIDs)
	return ids
}

func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

func (o *Order) DistanceKm() float64 {
	return o.distanceKm
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) IsRestaurantEngaged() bool {
	return o.restaurantEngaged
}

func (o *Order) IsCourierEngaged() bool {
	return o.courierEngaged
}

func (o *Order) EstimatedDeliveryTime() time.Time {
	return o.estimatedDeliveryTime
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID string) bool {
	return o.userID == userID
}

// Engage marks the restaurant and the courier as reserved for this order.
//
// Returns false without touching the order when there is nothing to do: the
// order is already Delivered, or both flags are already set. Re-delivered
// engagement jobs rely on this.
func (o *Order) Engage(now time.Time) bool {
	if o.status.IsFinal() || (o.restaurantEngaged && o.courierEngaged) {
		return false
	}

	o.restaurantEngaged = true
	o.courierEngaged = true
	o.updatedAt = now
	o.record(EventEngaged, now)
	return true
}

// Deliver clears both engagement flags and moves the order to Delivered.
//
// Returns:
//   - (false, nil) when the order is already Delivered
//   - (true, nil) after a successful transition
//   - (false, error) when the current status does not allow delivery
func (o *Order) Deliver(now time.Time) (bool, error) {
	if o.status == Delivered {
		return false, nil
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return false, err
	}

	o.status = newStatus
	o.restaurantEngaged = false
	o.courierEngaged = false
	o.updatedAt = now
	o.record(EventDelivered, now)
	return true, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUserIsRequired
	}
	o.userID = userID
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setFoodItemIDs(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return ErrFoodItemsAreEmpty
	}
	for i, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("food item #%d", i), err)
		}
	}
	o.foodItemIDs = make([]kernel.UUID, len(ids))
	copy(o.foodItemIDs, ids)
	return nil
}

func (o *Order) setTotalPrice(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.totalPrice = total
	return nil
}

func (o *Order) setDistanceKm(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distance is invalid", fmt.Errorf("%v is not a finite non-negative value", km))
	}
	o.distanceKm = km
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == Delivered && (o.restaurantEngaged || o.courierEngaged) {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			errors.New("Delivered order cannot keep its engagement flags"))
	}
	o.status = status
	return nil
}
