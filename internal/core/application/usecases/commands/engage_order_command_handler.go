package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddispatch/internal/core/domain/model/engagement"
	"fooddispatch/internal/pkg/errs"
)

// EngageOrderCommandHandler is the first engagement phase.
//
// It sets both engagement flags on the order, keeps the restaurant reserved
// for it and schedules the release phase one engagement window after its own
// completion. Running it again for the same order changes nothing, and a
// Delivered order is left alone.
type EngageOrderCommandHandler struct {
	uowFactory EngagementUoWFactory
	window     time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

func NewEngageOrderCommandHandler(
	uowFactory EngagementUoWFactory,
	window time.Duration,
	logger *slog.Logger,
) EngageOrderCommandHandler {
	return EngageOrderCommandHandler{
		uowFactory: uowFactory,
		window:     window,
		now:        time.Now,
		logger:     logger.With("component", "EngageOrderCommandHandler"),
	}
}

// WithClock returns a copy of the handler that reads time from now.
func (h EngageOrderCommandHandler) WithClock(now func() time.Time) EngageOrderCommandHandler {
	h.now = now
	return h
}

// Handle returns ErrOrderNotFound when the order does not exist; callers must
// not retry in that case.
func (h *EngageOrderCommandHandler) Handle(ctx context.Context, cmd EngageOrderCommand) error {
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
		h.logger.InfoContext(ctx, "order already delivered, skipping engagement", "order_id", o.ID().String())
		return nil
	}

	claimed, err := uow.RestaurantRepository().Claim(ctx, o.RestaurantID(), o.ID())
	if err != nil {
		return err
	}
	if !claimed {
		h.logger.WarnContext(ctx, "restaurant is held by another order",
			"order_id", o.ID().String(),
			"restaurant_id", o.RestaurantID().String())
	}

	now := h.now()
	if o.Engage(now) {
		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}
	}

	release, err := engagement.NewJob(o.ID(), engagement.PhaseRelease, now.Add(h.window), now)
	if err != nil {
		return err
	}

	if err = uow.EngagementJobRepository().Schedule(ctx, release); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
