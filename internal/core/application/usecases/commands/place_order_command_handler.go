package commands

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/engagement"
	"fooddispatch/internal/core/domain/model/food"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/model/restaurant"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
)

// PlaceOrderCommandHandler routes a new order to the nearest available
// restaurant and persists it together with its first engagement job.
//
// Workflow:
//  1. geocode the delivery address
//  2. list available restaurants and pick the nearest one
//  3. resolve the requested food items and sum their prices
//  4. reserve the restaurant, insert the Pending order and schedule the
//     engage phase, all in one transaction
//
// A failure at any step leaves neither an order nor a job behind.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, geocoder, 15*time.Minute)
//	cmd, _ := NewPlaceOrderCommand("42", "Knez Mihailova 6", ids)
//
//	placed, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoRestaurantAvailable) {
//	    // respond 409
//	}
type PlaceOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	geocoder   ports.Geocoder
	resolver   services.NearestRestaurantResolver
	window     time.Duration
	now        func() time.Time
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
// window is the engagement window used for the estimated delivery time.
func NewPlaceOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	geocoder ports.Geocoder,
	window time.Duration,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		resolver:   services.NewNearestRestaurantResolver(),
		window:     window,
		now:        time.Now,
	}
}

// WithClock returns a copy of the handler that reads time from now.
func (h PlaceOrderCommandHandler) WithClock(now func() time.Time) PlaceOrderCommandHandler {
	h.now = now
	return h
}

// Handle places the order and returns it as persisted.
//
// Returns:
//   - ErrAddressUnresolvable when the geocoder finds no coordinates for the address
//   - ErrNoRestaurantAvailable when no available restaurant could be reserved
//   - ErrInvalidFoodSelection when none of the food items exist
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	point, err := h.geocoder.Resolve(ctx, cmd.Address())
	if err != nil {
		return nil, geocodingError(err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	restaurantRepo := uow.RestaurantRepository()
	candidates, err := restaurantRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if nearest, _ := h.resolver.Select(point, candidates); nearest == nil {
		return nil, ErrNoRestaurantAvailable
	}

	items, err := uow.FoodCatalog().ResolveMany(ctx, cmd.FoodItemIDs())
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrInvalidFoodSelection
	}

	orderID := kernel.NewUUID()
	chosen, distance, err := h.claimNearest(ctx, restaurantRepo, point, candidates, orderID)
	if err != nil {
		return nil, err
	}

	now := h.now()
	placed, err := order.NewOrder(
		orderID,
		cmd.UserID(),
		chosen.ID(),
		food.IDs(items),
		food.Total(items),
		distance,
		now,
		h.window,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, err
	}

	job, err := engagement.NewJob(orderID, engagement.PhaseEngage, now, now)
	if err != nil {
		return nil, err
	}

	if err = uow.EngagementJobRepository().Schedule(ctx, job); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return placed, nil
}

// claimNearest reserves the nearest candidate. When a concurrent order wins
// the reservation, that restaurant is dropped and the next nearest is tried.
func (h *PlaceOrderCommandHandler) claimNearest(
	ctx context.Context,
	repo ports.RestaurantRepository,
	point kernel.GeoPoint,
	candidates []*restaurant.Restaurant,
	orderID kernel.UUID,
) (*restaurant.Restaurant, float64, error) {
	remaining := candidates
	for {
		nearest, distance := h.resolver.Select(point, remaining)
		if nearest == nil {
			return nil, 0, ErrNoRestaurantAvailable
		}

		claimed, err := repo.Claim(ctx, nearest.ID(), orderID)
		if err != nil {
			return nil, 0, err
		}
		if claimed {
			return nearest, distance, nil
		}

		remaining = without(remaining, nearest)
	}
}

func without(candidates []*restaurant.Restaurant, r *restaurant.Restaurant) []*restaurant.Restaurant {
	out := make([]*restaurant.Restaurant, 0, len(candidates))
	for _, c := range candidates {
		if !r.IsEqual(c) {
			out = append(out, c)
		}
	}
	return out
}
