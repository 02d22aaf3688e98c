package commands_test

import (
	"testing"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceOrderCommand(t *testing.T) {
	ids := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}

	t.Run("valid_command", func(t *testing.T) {
		cmd, err := commands.NewPlaceOrderCommand("42", "  Knez Mihailova 6  ", ids)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "42", cmd.UserID())
		assert.Equal(t, "Knez Mihailova 6", cmd.Address())
		assert.Equal(t, ids, cmd.FoodItemIDs())
	})

	t.Run("empty_food_list_is_accepted", func(t *testing.T) {
		cmd, err := commands.NewPlaceOrderCommand("42", "Somewhere", nil)

		require.NoError(t, err)
		assert.Empty(t, cmd.FoodItemIDs())
	})

	t.Run("missing_user_and_address", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand("", " ", ids)

		require.ErrorIs(t, err, commands.ErrUserIsRequired)
		require.ErrorIs(t, err, commands.ErrAddressIsRequired)
	})

	t.Run("zero_value_is_rejected", func(t *testing.T) {
		var cmd commands.PlaceOrderCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
	})
}

func TestEngageAndReleaseCommands(t *testing.T) {
	id := kernel.NewUUID()

	engage, err := commands.NewEngageOrderCommand(id)
	require.NoError(t, err)
	assert.True(t, engage.OrderID().IsEqual(id))
	require.NoError(t, engage.Validate())

	release, err := commands.NewReleaseOrderCommand(id)
	require.NoError(t, err)
	assert.True(t, release.OrderID().IsEqual(id))

	_, err = commands.NewEngageOrderCommand(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	_, err = commands.NewReleaseOrderCommand(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, commands.EngageOrderCommand{}.Validate(), commands.ErrEngageOrderCommandIsNotConstructed)
	require.ErrorIs(t, commands.ReleaseOrderCommand{}.Validate(), commands.ErrReleaseOrderCommandIsNotConstructed)
}

func TestNewRegisterRestaurantCommand(t *testing.T) {
	t.Run("without_location", func(t *testing.T) {
		cmd, err := commands.NewRegisterRestaurantCommand("Pizzeria", "Knez Mihailova 1", nil)

		require.NoError(t, err)
		assert.Nil(t, cmd.Location())
		assert.Equal(t, "Pizzeria", cmd.Name())
	})

	t.Run("with_location", func(t *testing.T) {
		loc := mustPoint(t, 44.81, 20.41)
		cmd, err := commands.NewRegisterRestaurantCommand("Pizzeria", "Knez Mihailova 1", &loc)

		require.NoError(t, err)
		require.NotNil(t, cmd.Location())
		assert.True(t, cmd.Location().IsEqual(loc))
	})

	t.Run("invalid_fields", func(t *testing.T) {
		var bad kernel.GeoPoint
		_, err := commands.NewRegisterRestaurantCommand("", "", &bad)

		require.ErrorIs(t, err, commands.ErrNameIsRequired)
		require.ErrorIs(t, err, commands.ErrAddressIsRequired)
		require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	})
}
