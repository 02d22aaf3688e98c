// Package foodrepo is the read-only view of the menu catalog. Menu management
// happens elsewhere; this package only resolves identifiers to priced items.
package foodrepo

import (
	"fooddispatch/internal/core/domain/model/food"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FoodDTO is the row stored in the foods table.
type FoodDTO struct {
	ID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name  string          `gorm:"type:varchar(100);not null"`
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (FoodDTO) TableName() string {
	return "foods"
}

// FromDomain is used to seed the catalog.
func FromDomain(item *food.Item) FoodDTO {
	return FoodDTO{
		ID:    item.ID().Raw(),
		Name:  item.Name(),
		Price: item.Price().Decimal(),
	}
}

func toDomain(dto FoodDTO) (*food.Item, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	return food.NewItem(id, dto.Name, price)
}
