package commands_test

import (
	"context"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/engagement"
	"fooddispatch/internal/core/domain/model/food"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/model/restaurant"
	"fooddispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Add(ctx context.Context, r *restaurant.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Update(ctx context.Context, r *restaurant.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*restaurant.Restaurant)
	return r, args.Error(1)
}

func (m *MockRestaurantRepository) ListAvailable(ctx context.Context) ([]*restaurant.Restaurant, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]*restaurant.Restaurant)
	return rs, args.Error(1)
}

func (m *MockRestaurantRepository) Claim(ctx context.Context, id kernel.UUID, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, id, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRestaurantRepository) Release(ctx context.Context, id kernel.UUID, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, id, orderID)
	return args.Bool(0), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockEngagementJobRepository struct{ mock.Mock }

func (m *MockEngagementJobRepository) Schedule(ctx context.Context, job *engagement.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockEngagementJobRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*engagement.Job, error) {
	args := m.Called(ctx, now, limit)
	jobs, _ := args.Get(0).([]*engagement.Job)
	return jobs, args.Error(1)
}

func (m *MockEngagementJobRepository) Update(ctx context.Context, job *engagement.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockFoodCatalog struct{ mock.Mock }

func (m *MockFoodCatalog) ResolveMany(ctx context.Context, ids []kernel.UUID) ([]*food.Item, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]*food.Item)
	return items, args.Error(1)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	p, _ := args.Get(0).(kernel.GeoPoint)
	return p, args.Error(1)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) RestaurantRepository() ports.RestaurantRepository {
	args := m.Called()
	return args.Get(0).(ports.RestaurantRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) EngagementJobRepository() ports.EngagementJobRepository {
	args := m.Called()
	return args.Get(0).(ports.EngagementJobRepository)
}

func (m *MockUoW) FoodCatalog() ports.FoodCatalog {
	args := m.Called()
	return args.Get(0).(ports.FoodCatalog)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.DispatchUoW)
}

type MockEngagementUoWFactory struct{ mock.Mock }

func (m *MockEngagementUoWFactory) Create() commands.EngagementUoW {
	args := m.Called()
	return args.Get(0).(commands.EngagementUoW)
}

type MockRestaurantUoWFactory struct{ mock.Mock }

func (m *MockRestaurantUoWFactory) Create() commands.RestaurantUoW {
	args := m.Called()
	return args.Get(0).(commands.RestaurantUoW)
}
