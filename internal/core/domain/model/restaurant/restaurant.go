package restaurant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// Domain errors for restaurant operations.
var (
	ErrNameIsRequired    = errs.NewValueIsRequiredError("name")
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
	// ErrRestaurantIsNotConstructed is returned when using an improperly initialized Restaurant.
	ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")
	// ErrRestaurantIsEngaged is returned when another order already holds the restaurant.
	ErrRestaurantIsEngaged = errors.New("restaurant is engaged by another order")
	// ErrRestaurantIsNotLocated is returned when distance is requested before geocoding.
	ErrRestaurantIsNotLocated = errors.New("restaurant has no coordinates")
)

// Restaurant is the aggregate root of the restaurant directory. The dispatch
// core reads its location and availability and reserves it for exactly one
// order at a time.
//
// Business rules:
//   - id, non-empty name and non-empty address are required
//   - location is optional until the address has been geocoded
//   - a restaurant engaged by an order is unavailable
//   - only the engaging order can release it
//
// Example usage:
//
//	loc, _ := kernel.NewGeoPoint(44.81, 20.41)
//	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Pizzeria A", "Knez Mihailova 1", &loc, time.Now())
type Restaurant struct {
	id             kernel.UUID
	name           string
	address        string
	location       *kernel.GeoPoint
	isAvailable    bool
	engagedOrderID *kernel.UUID
	createdAt      time.Time
	updatedAt      time.Time
	guard          guard.ConstructorGuard
}

// NewRestaurant registers an available restaurant.
//
// Parameters:
//   - id: unique identifier
//   - name: display name (non-empty)
//   - address: free-text street address used for geocoding (non-empty)
//   - location: coordinates, or nil when the address is not yet geocoded
//   - now: registration instant
//
// Returns:
//   - *Restaurant: available, unengaged restaurant
//   - error: joined validation errors
func NewRestaurant(
	id kernel.UUID,
	name string,
	address string,
	location *kernel.GeoPoint,
	now time.Time,
) (*Restaurant, error) {
	r := &Restaurant{
		isAvailable: true,
		createdAt:   now,
		updatedAt:   now,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setAddress(address),
		r.setLocation(location),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Snapshot carries every persisted attribute of a restaurant.
type Snapshot struct {
	ID             kernel.UUID
	Name           string
	Address        string
	Location       *kernel.GeoPoint
	IsAvailable    bool
	EngagedOrderID *kernel.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RestoreRestaurant rebuilds a restaurant from storage. An engaged restaurant
// must be unavailable.
func RestoreRestaurant(s Snapshot) (*Restaurant, error) {
	r := &Restaurant{
		isAvailable: s.IsAvailable,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
		guard:       guard.NewConstructorGuard(),
	}

	var engagementErr error
	if s.EngagedOrderID != nil {
		if err := s.EngagedOrderID.Validate(); err != nil {
			engagementErr = errs.NewValueIsInvalidErrorWithCause("engaged order", err)
		} else if s.IsAvailable {
			engagementErr = errs.NewValueIsInvalidErrorWithCause("engaged order",
				fmt.Errorf("restaurant engaged by %s cannot be available", s.EngagedOrderID))
		} else {
			id := *s.EngagedOrderID
			r.engagedOrderID = &id
		}
	}

	if err := errors.Join(
		r.setID(s.ID),
		r.setName(s.Name),
		r.setAddress(s.Address),
		r.setLocation(s.Location),
		engagementErr,
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the restaurant was built by NewRestaurant or RestoreRestaurant.
func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

// IsEqual compares restaurants by identifier.
func (r *Restaurant) IsEqual(other *Restaurant) bool {
	if other == nil {
		return false
	}
	return r.id.IsEqual(other.id)
}

func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

func (r *Restaurant) Name() string {
	return r.name
}

func (r *Restaurant) Address() string {
	return r.address
}

// Location returns the geocoded coordinates and whether they are known.
func (r *Restaurant) Location() (kernel.GeoPoint, bool) {
	if r.location == nil {
		return kernel.GeoPoint{}, false
	}
	return *r.location, true
}

func (r *Restaurant) IsAvailable() bool {
	return r.isAvailable
}

// EngagedOrderID returns the order holding the restaurant, if any.
func (r *Restaurant) EngagedOrderID() (kernel.UUID, bool) {
	if r.engagedOrderID == nil {
		return kernel.UUID{}, false
	}
	return *r.engagedOrderID, true
}

func (r *Restaurant) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Restaurant) UpdatedAt() time.Time {
	return r.updatedAt
}

// DistanceKm returns the great-circle distance from point to the restaurant.
func (r *Restaurant) DistanceKm(point kernel.GeoPoint) (float64, error) {
	loc, ok := r.Location()
	if !ok {
		return 0, ErrRestaurantIsNotLocated
	}
	return point.DistanceKm(loc), nil
}

// Locate stores the geocoded coordinates of the restaurant's address.
func (r *Restaurant) Locate(point kernel.GeoPoint, now time.Time) error {
	if err := r.setLocation(&point); err != nil {
		return err
	}
	r.updatedAt = now
	return nil
}

// Engage reserves the restaurant for orderID and makes it unavailable.
//
// Returns:
//   - (true, nil) when the reservation was taken
//   - (false, nil) when orderID already holds the reservation
//   - (false, ErrRestaurantIsEngaged) when another order holds it or the restaurant is closed
func (r *Restaurant) Engage(orderID kernel.UUID, now time.Time) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	if held, ok := r.EngagedOrderID(); ok {
		if held.IsEqual(orderID) {
			return false, nil
		}
		return false, fmt.Errorf("%w: held by %s", ErrRestaurantIsEngaged, held)
	}
	if !r.isAvailable {
		return false, ErrRestaurantIsEngaged
	}

	id := orderID
	r.engagedOrderID = &id
	r.isAvailable = false
	r.updatedAt = now
	return true, nil
}

// Release frees the restaurant if orderID holds it. A release by any other
// order, or of an unengaged restaurant, changes nothing and returns false.
func (r *Restaurant) Release(orderID kernel.UUID, now time.Time) bool {
	held, ok := r.EngagedOrderID()
	if !ok || !held.IsEqual(orderID) {
		return false
	}

	r.engagedOrderID = nil
	r.isAvailable = true
	r.updatedAt = now
	return true
}

func (r *Restaurant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Restaurant) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}

func (r *Restaurant) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return ErrAddressIsRequired
	}
	r.address = address
	return nil
}

func (r *Restaurant) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		r.location = nil
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	loc := *location
	r.location = &loc
	return nil
}
