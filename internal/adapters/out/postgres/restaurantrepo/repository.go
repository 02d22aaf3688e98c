package restaurantrepo

import (
	"context"
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/restaurant"
	"fooddispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRestaurantRepository implements ports.RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	now     func() time.Time
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormRestaurantRepository(db *gorm.DB, tracker aggregateTracker) *GormRestaurantRepository {
	return &GormRestaurantRepository{
		db:      db,
		tracker: tracker,
		now:     time.Now,
	}
}

// Add saves a newly registered restaurant.
func (r *GormRestaurantRepository) Add(ctx context.Context, aggregate *restaurant.Restaurant) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the descriptive columns only. Reservation columns are left to
// Claim and Release so a stale aggregate cannot overwrite them.
func (r *GormRestaurantRepository) Update(ctx context.Context, aggregate *restaurant.Restaurant) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RestaurantDTO{}).
		Where("id = ?", dto.ID).
		Select("name", "address", "latitude", "longitude", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a restaurant by ID.
func (r *GormRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListAvailable returns available restaurants in registration order.
func (r *GormRestaurantRepository) ListAvailable(ctx context.Context) ([]*restaurant.Restaurant, error) {
	var dtos []RestaurantDTO
	if err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	restaurants := make([]*restaurant.Restaurant, 0, len(dtos))
	for _, dto := range dtos {
		rest, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}

	return restaurants, nil
}

// Claim reserves the restaurant for orderID with a single conditional UPDATE.
// The row matches while it is available or already held by the same order,
// so zero affected rows means another order holds it.
func (r *GormRestaurantRepository) Claim(ctx context.Context, id kernel.UUID, orderID kernel.UUID) (bool, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&RestaurantDTO{}).
		Where("id = ? AND (is_available = ? OR engaged_order_id = ?)", id.Raw(), true, orderID.Raw()).
		Updates(map[string]any{
			"is_available":     false,
			"engaged_order_id": orderID.Raw(),
			"updated_at":       r.now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Release frees the restaurant only when orderID is the current holder.
func (r *GormRestaurantRepository) Release(ctx context.Context, id kernel.UUID, orderID kernel.UUID) (bool, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&RestaurantDTO{}).
		Where("id = ? AND engaged_order_id = ?", id.Raw(), orderID.Raw()).
		Updates(map[string]any{
			"is_available":     true,
			"engaged_order_id": nil,
			"updated_at":       r.now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
