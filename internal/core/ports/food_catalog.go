package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/food"
	"fooddispatch/internal/core/domain/model/kernel"
)

// FoodCatalog is the read-only view of the menu catalog.
type FoodCatalog interface {
	// ResolveMany returns the items whose identifiers appear in ids. Unknown
	// identifiers are skipped and duplicates collapse to a single item, so the
	// result may be shorter than ids or empty.
	ResolveMany(ctx context.Context, ids []kernel.UUID) ([]*food.Item, error)
}
