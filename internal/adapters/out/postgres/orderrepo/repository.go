package orderrepo

import (
	"context"
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// engagementColumns are the only order columns written after placement.
// Food items, total price and distance are fixed when the order is created.
var engagementColumns = []any{"status", "restaurant_engaged", "courier_engaged", "updated_at"}

// GormOrderRepository stores placed orders together with their ordered food
// item references. Writes go through the caller's transaction, so an order and
// its first engagement job commit or roll back together.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker lets the unit of work publish the order events recorded by
// written aggregates once the transaction commits.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a Pending order and one order_food_items row per requested item,
// keeping the request order in the position column.
func (r *GormOrderRepository) Add(ctx context.Context, placed *order.Order) error {
	if err := placed.Validate(); err != nil {
		return err
	}

	row := fromDomain(placed)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(placed.ID(), placed)
	return nil
}

// Update persists an engagement phase: the status and the two engagement
// flags. Returns gorm.ErrRecordNotFound when the order row is gone.
func (r *GormOrderRepository) Update(ctx context.Context, engaged *order.Order) error {
	if err := engaged.Validate(); err != nil {
		return err
	}

	row := fromDomain(engaged)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", row.ID).
		Select(engagementColumns[0], engagementColumns[1:]...).
		Updates(&row)
	switch {
	case result.Error != nil:
		return result.Error
	case result.RowsAffected == 0:
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(engaged.ID(), engaged)
	return nil
}

// Get loads an order with its food item ids in the order they were requested.
// A missing order is *errs.ObjectNotFoundError, which the engagement phases
// turn into a no-retry outcome.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var row OrderDTO
	err := r.db.WithContext(ctx).
		Preload("FoodItems", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position")
		}).
		Take(&row, "id = ?", id.Raw()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(row)
}
