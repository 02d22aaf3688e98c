package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddispatch/internal/pkg/errs"
)

// ReleaseOrderCommandHandler is the second and final engagement phase.
//
// It frees the restaurant if this order still holds it, clears both
// engagement flags and marks the order Delivered. A Delivered order is left
// alone, so re-delivered jobs are harmless.
type ReleaseOrderCommandHandler struct {
	uowFactory EngagementUoWFactory
	now        func() time.Time
	logger     *slog.Logger
}

func NewReleaseOrderCommandHandler(uowFactory EngagementUoWFactory, logger *slog.Logger) ReleaseOrderCommandHandler {
	return ReleaseOrderCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
		logger:     logger.With("component", "ReleaseOrderCommandHandler"),
	}
}

// WithClock returns a copy of the handler that reads time from now.
func (h ReleaseOrderCommandHandler) WithClock(now func() time.Time) ReleaseOrderCommandHandler {
	h.now = now
	return h
}

// Handle returns ErrOrderNotFound when the order does not exist; callers must
// not retry in that case.
func (h *ReleaseOrderCommandHandler) Handle(ctx context.Context, cmd ReleaseOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, cmd.OrderID())
		}
		return err
	}

	if o.Status().IsFinal() {
		h.logger.InfoContext(ctx, "order already delivered, skipping release", "order_id", o.ID().String())
		return nil
	}

	released, err := uow.RestaurantRepository().Release(ctx, o.RestaurantID(), o.ID())
	if err != nil {
		return err
	}
	if !released {
		h.logger.WarnContext(ctx, "restaurant was not held by this order",
			"order_id", o.ID().String(),
			"restaurant_id", o.RestaurantID().String())
	}

	if _, err = o.Deliver(h.now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
