package foodrepo

import (
	"context"

	"fooddispatch/internal/core/domain/model/food"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFoodCatalog implements ports.FoodCatalog using GORM.
type GormFoodCatalog struct {
	db *gorm.DB
}

func NewGormFoodCatalog(db *gorm.DB) *GormFoodCatalog {
	return &GormFoodCatalog{db: db}
}

// ResolveMany loads the items named by ids. Duplicates collapse and unknown
// identifiers are skipped; the result follows the first occurrence of each
// identifier in ids.
func (c *GormFoodCatalog) ResolveMany(ctx context.Context, ids []kernel.UUID) ([]*food.Item, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id.Raw()]; ok {
			continue
		}
		seen[id.Raw()] = struct{}{}
		raw = append(raw, id.Raw())
	}

	if len(raw) == 0 {
		return []*food.Item{}, nil
	}

	var dtos []FoodDTO
	if err := c.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]FoodDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	items := make([]*food.Item, 0, len(dtos))
	for _, id := range raw {
		dto, ok := byID[id]
		if !ok {
			continue
		}
		item, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
