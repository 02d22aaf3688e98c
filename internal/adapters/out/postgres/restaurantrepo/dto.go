// Package restaurantrepo persists the restaurant directory. Reservation state
// (is_available, engaged_order_id) is only ever written through the
// conditional Claim and Release statements.
package restaurantrepo

import (
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
)

// RestaurantDTO is the row stored in the restaurants table. Latitude and
// longitude are NULL until the address has been geocoded.
type RestaurantDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"type:varchar(100);not null"`
	Address        string     `gorm:"type:varchar(255);not null"`
	Latitude       *float64   `gorm:"type:double precision"`
	Longitude      *float64   `gorm:"type:double precision"`
	IsAvailable    bool       `gorm:"not null;default:true;index"`
	EngagedOrderID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

func fromDomain(r *restaurant.Restaurant) RestaurantDTO {
	dto := RestaurantDTO{
		ID:          r.ID().Raw(),
		Name:        r.Name(),
		Address:     r.Address(),
		IsAvailable: r.IsAvailable(),
		CreatedAt:   r.CreatedAt().UTC(),
		UpdatedAt:   r.UpdatedAt().UTC(),
	}

	if loc, ok := r.Location(); ok {
		lat, lng := loc.Latitude(), loc.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lng
	}

	if orderID, ok := r.EngagedOrderID(); ok {
		raw := orderID.Raw()
		dto.EngagedOrderID = &raw
	}

	return dto
}

func toDomain(dto RestaurantDTO) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	var engagedOrderID *kernel.UUID
	if dto.EngagedOrderID != nil {
		orderID, orderErr := kernel.UUIDFromRaw(*dto.EngagedOrderID)
		if orderErr != nil {
			return nil, orderErr
		}
		engagedOrderID = &orderID
	}

	return restaurant.RestoreRestaurant(restaurant.Snapshot{
		ID:             id,
		Name:           dto.Name,
		Address:        dto.Address,
		Location:       location,
		IsAvailable:    dto.IsAvailable,
		EngagedOrderID: engagedOrderID,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	})
}
