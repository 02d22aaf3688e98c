package commands

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/restaurant"
	"fooddispatch/internal/core/ports"
)

// RegisterRestaurantCommandHandler persists a new available restaurant,
// geocoding its address when no coordinates were supplied.
type RegisterRestaurantCommandHandler struct {
	uowFactory RestaurantUoWFactory
	geocoder   ports.Geocoder
	now        func() time.Time
}

func NewRegisterRestaurantCommandHandler(
	uowFactory RestaurantUoWFactory,
	geocoder ports.Geocoder,
) RegisterRestaurantCommandHandler {
	return RegisterRestaurantCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		now:        time.Now,
	}
}

// WithClock returns a copy of the handler that reads time from now.
func (h RegisterRestaurantCommandHandler) WithClock(now func() time.Time) RegisterRestaurantCommandHandler {
	h.now = now
	return h
}

// Handle returns ErrAddressUnresolvable when coordinates are missing and the
// address cannot be geocoded.
func (h *RegisterRestaurantCommandHandler) Handle(
	ctx context.Context,
	cmd RegisterRestaurantCommand,
) (*restaurant.Restaurant, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	location := cmd.Location()
	if location == nil {
		point, err := h.geocoder.Resolve(ctx, cmd.Address())
		if err != nil {
			return nil, geocodingError(err)
		}
		location = &point
	}

	r, err := restaurant.NewRestaurant(kernel.NewUUID(), cmd.Name(), cmd.Address(), location, h.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RestaurantRepository().Add(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}
