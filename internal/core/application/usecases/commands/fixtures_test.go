package commands_test

import (
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/food"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/model/restaurant"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func mustPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func mustRestaurant(t *testing.T, name string, lat, lng float64) *restaurant.Restaurant {
	t.Helper()
	loc := mustPoint(t, lat, lng)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), name, name+" street", &loc, fixedNow)
	require.NoError(t, err)
	return r
}

func mustItem(t *testing.T, name, price string) *food.Item {
	t.Helper()
	p, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	item, err := food.NewItem(kernel.NewUUID(), name, p)
	require.NoError(t, err)
	return item
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	total, err := kernel.MoneyFromString("22.50")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "user-1", kernel.NewUUID(),
		[]kernel.UUID{kernel.NewUUID()}, total, 1.36, fixedNow.Add(-time.Minute), order.DefaultEngagementWindow)
	require.NoError(t, err)
	return o
}

func engagedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := pendingOrder(t)
	o.Engage(fixedNow.Add(-30 * time.Second))
	return o
}

func deliveredOrder(t *testing.T) *order.Order {
	t.Helper()
	o := engagedOrder(t)
	_, err := o.Deliver(fixedNow.Add(-10 * time.Second))
	require.NoError(t, err)
	return o
}
