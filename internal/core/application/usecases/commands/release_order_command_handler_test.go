package commands_test

import (
	"log/slog"
	"testing"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReleaseHandler(factory commands.EngagementUoWFactory) commands.ReleaseOrderCommandHandler {
	return commands.NewReleaseOrderCommandHandler(factory, slog.New(slog.DiscardHandler)).WithClock(clock)
}

func TestReleaseOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := engagedOrder(t)

	factory := new(MockEngagementUoWFactory)
	uow := new(MockUoW)
	orders := new(MockOrderRepository)
	restaurants := new(MockRestaurantRepository)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("RestaurantRepository").Return(restaurants).Once(),
		restaurants.On("Release", ctx, o.RestaurantID(), o.ID()).Return(true, nil).Once(),
		orders.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewReleaseOrderCommand(o.ID())
	require.NoError(t, err)
	handler := newReleaseHandler(factory)

	require.NoError(t, handler.Handle(ctx, cmd))
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	orders.AssertExpectations(t)
	restaurants.AssertExpectations(t)

	assert.Equal(t, order.Delivered, o.Status())
	assert.False(t, o.IsRestaurantEngaged())
	assert.False(t, o.IsCourierEngaged())
	assert.Equal(t, fixedNow, o.UpdatedAt())
}

func TestReleaseOrderCommandHandler_Handle_RestaurantHeldByNewerOrder(t *testing.T) {
	ctx := t.Context()
	o := engagedOrder(t)

	factory := new(MockEngagementUoWFactory)
	uow := new(MockUoW)
	orders := new(MockOrderRepository)
	restaurants := new(MockRestaurantRepository)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orders)
	uow.On("RestaurantRepository").Return(restaurants)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	orders.On("Get", ctx, o.ID()).Return(o, nil)
	orders.On("Update", ctx, o).Return(nil)
	restaurants.On("Release", ctx, o.RestaurantID(), o.ID()).Return(false, nil)

	cmd, err := commands.NewReleaseOrderCommand(o.ID())
	require.NoError(t, err)
	handler := newReleaseHandler(factory)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.Delivered, o.Status())
	uow.AssertCalled(t, "Commit", ctx)
}

func TestReleaseOrderCommandHandler_Handle_AlreadyDelivered(t *testing.T) {
	ctx := t.Context()
	o := deliveredOrder(t)
	updatedAt := o.UpdatedAt()

	factory := new(MockEngagementUoWFactory)
	uow := new(MockUoW)
	orders := new(MockOrderRepository)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewReleaseOrderCommand(o.ID())
	require.NoError(t, err)
	handler := newReleaseHandler(factory)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, updatedAt, o.UpdatedAt())
	uow.AssertNotCalled(t, "RestaurantRepository")
	orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReleaseOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	o := engagedOrder(t)

	factory := new(MockEngagementUoWFactory)
	uow := new(MockUoW)
	orders := new(MockOrderRepository)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orders)
	uow.On("Rollback", ctx).Return(nil)
	orders.On("Get", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("order", o.ID()))

	cmd, err := commands.NewReleaseOrderCommand(o.ID())
	require.NoError(t, err)
	handler := newReleaseHandler(factory)

	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrOrderNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestReleaseOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockEngagementUoWFactory)
	handler := newReleaseHandler(factory)

	err := handler.Handle(t.Context(), commands.ReleaseOrderCommand{})

	require.ErrorIs(t, err, commands.ErrReleaseOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
