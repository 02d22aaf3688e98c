// Package orderrepo maps order aggregates to the orders table and their food
// item references to order_food_items.
package orderrepo

import (
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row stored in the orders table. Status is persisted by name
// so read queries can search it as text.
type OrderDTO struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID                string          `gorm:"type:varchar(64);not null;index"`
	RestaurantID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalPrice            decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	DistanceKm            float64         `gorm:"column:distance_km;type:double precision;not null"`
	Status                string          `gorm:"type:varchar(20);not null;index"`
	RestaurantEngaged     bool            `gorm:"not null;default:false"`
	CourierEngaged        bool            `gorm:"not null;default:false"`
	EstimatedDeliveryTime time.Time       `gorm:"not null"`
	CreatedAt             time.Time       `gorm:"not null;index"`
	UpdatedAt             time.Time       `gorm:"not null"`

	FoodItems []OrderFoodItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderFoodItemDTO links an order to one food item. Position keeps the order
// in which the items were resolved.
type OrderFoodItemDTO struct {
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	FoodID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position int       `gorm:"not null"`
}

func (OrderFoodItemDTO) TableName() string {
	return "order_food_items"
}

func fromDomain(o *order.Order) OrderDTO {
	ids := o.FoodItemIDs()
	items := make([]OrderFoodItemDTO, 0, len(ids))
	for i, id := range ids {
		items = append(items, OrderFoodItemDTO{
			OrderID:  o.ID().Raw(),
			FoodID:   id.Raw(),
			Position: i,
		})
	}

	return OrderDTO{
		ID:                    o.ID().Raw(),
		UserID:                o.UserID(),
		RestaurantID:          o.RestaurantID().Raw(),
		TotalPrice:            o.TotalPrice().Decimal(),
		DistanceKm:            o.DistanceKm(),
		Status:                o.Status().String(),
		RestaurantEngaged:     o.IsRestaurantEngaged(),
		CourierEngaged:        o.IsCourierEngaged(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime().UTC(),
		CreatedAt:             o.CreatedAt().UTC(),
		UpdatedAt:             o.UpdatedAt().UTC(),
		FoodItems:             items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromRaw(dto.RestaurantID)
	if err != nil {
		return nil, err
	}

	foodItemIDs := make([]kernel.UUID, 0, len(dto.FoodItems))
	for _, item := range dto.FoodItems {
		foodID, foodErr := kernel.UUIDFromRaw(item.FoodID)
		if foodErr != nil {
			return nil, foodErr
		}
		foodItemIDs = append(foodItemIDs, foodID)
	}

	total, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                    id,
		UserID:                dto.UserID,
		RestaurantID:          restaurantID,
		FoodItemIDs:           foodItemIDs,
		TotalPrice:            total,
		DistanceKm:            dto.DistanceKm,
		Status:                status,
		RestaurantEngaged:     dto.RestaurantEngaged,
		CourierEngaged:        dto.CourierEngaged,
		EstimatedDeliveryTime: dto.EstimatedDeliveryTime,
		CreatedAt:             dto.CreatedAt,
		UpdatedAt:             dto.UpdatedAt,
	})
}
