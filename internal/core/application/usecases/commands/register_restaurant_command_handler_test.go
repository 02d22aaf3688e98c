package commands_test

import (
	"errors"
	"testing"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterRestaurantCommandHandler_Handle(t *testing.T) {
	t.Run("geocodes_missing_location", func(t *testing.T) {
		ctx := t.Context()
		factory := new(MockRestaurantUoWFactory)
		uow := new(MockUoW)
		restaurants := new(MockRestaurantRepository)
		geocoder := new(MockGeocoder)

		mock.InOrder(
			geocoder.On("Resolve", ctx, "Knez Mihailova 1").Return(mustPoint(t, 44.81, 20.41), nil).Once(),
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("RestaurantRepository").Return(restaurants).Once(),
			restaurants.On("Add", ctx, mock.AnythingOfType("*restaurant.Restaurant")).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		cmd, err := commands.NewRegisterRestaurantCommand("Pizzeria", "Knez Mihailova 1", nil)
		require.NoError(t, err)
		handler := commands.NewRegisterRestaurantCommandHandler(factory, geocoder).WithClock(clock)

		r, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		geocoder.AssertExpectations(t)
		uow.AssertExpectations(t)
		restaurants.AssertExpectations(t)

		loc, ok := r.Location()
		require.True(t, ok)
		assert.InDelta(t, 44.81, loc.Latitude(), 1e-9)
		assert.True(t, r.IsAvailable())
		assert.Equal(t, fixedNow, r.CreatedAt())
	})

	t.Run("supplied_location_skips_geocoder", func(t *testing.T) {
		ctx := t.Context()
		factory := new(MockRestaurantUoWFactory)
		uow := new(MockUoW)
		restaurants := new(MockRestaurantRepository)
		geocoder := new(MockGeocoder)

		factory.On("Create").Return(uow)
		uow.On("Begin", ctx).Return(nil)
		uow.On("RestaurantRepository").Return(restaurants)
		uow.On("Commit", ctx).Return(nil)
		uow.On("Rollback", ctx).Return(nil)
		restaurants.On("Add", ctx, mock.Anything).Return(nil)

		loc := mustPoint(t, 44.9, 20.5)
		cmd, err := commands.NewRegisterRestaurantCommand("Grill", "Bulevar 10", &loc)
		require.NoError(t, err)
		handler := commands.NewRegisterRestaurantCommandHandler(factory, geocoder).WithClock(clock)

		r, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		got, ok := r.Location()
		require.True(t, ok)
		assert.True(t, got.IsEqual(loc))
		geocoder.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("unresolvable_address", func(t *testing.T) {
		ctx := t.Context()
		factory := new(MockRestaurantUoWFactory)
		geocoder := new(MockGeocoder)
		geocoder.On("Resolve", ctx, "???").Return(kernel.GeoPoint{}, ports.ErrAddressNotResolved)

		cmd, err := commands.NewRegisterRestaurantCommand("Nowhere", "???", nil)
		require.NoError(t, err)
		handler := commands.NewRegisterRestaurantCommandHandler(factory, geocoder)

		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, commands.ErrAddressUnresolvable)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("geocoder_outage", func(t *testing.T) {
		ctx := t.Context()
		factory := new(MockRestaurantUoWFactory)
		geocoder := new(MockGeocoder)
		outage := errors.New("opencage returned status 503")
		geocoder.On("Resolve", ctx, "Terazije 1").Return(kernel.GeoPoint{}, outage)

		cmd, err := commands.NewRegisterRestaurantCommand("Grill House", "Terazije 1", nil)
		require.NoError(t, err)
		handler := commands.NewRegisterRestaurantCommandHandler(factory, geocoder)

		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, outage)
		assert.NotErrorIs(t, err, commands.ErrAddressUnresolvable)
		factory.AssertNotCalled(t, "Create")
	})
}
