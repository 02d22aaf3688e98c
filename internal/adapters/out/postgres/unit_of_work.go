// Package postgres provides the GORM-based Unit of Work used by every command
// handler, together with database bootstrap and migrations.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// share that transaction, and every aggregate they add or update is tracked.
// After a successful Commit the order events recorded by tracked aggregates
// are handed to the configured ports.OrderEventPublisher.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, WithEventPublisher(publisher, logger))
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	claimed, err := uow.RestaurantRepository().Claim(ctx, restaurantID, orderID)
//	if err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Add(ctx, placed); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides an isolated transaction
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Restaurant reservations rely on conditional updates, not on row locks held
//     across requests
package postgres

import (
	"context"
	"log/slog"

	"fooddispatch/internal/adapters/out/postgres/foodrepo"
	"fooddispatch/internal/adapters/out/postgres/jobrepo"
	"fooddispatch/internal/adapters/out/postgres/orderrepo"
	"fooddispatch/internal/adapters/out/postgres/restaurantrepo"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that record order events.
type eventSource interface {
	DomainEvents() []order.Event
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one event publisher.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

// Option customises a GormUnitOfWorkFactory.
type Option func(*GormUnitOfWorkFactory)

// WithEventPublisher publishes order events after each successful commit.
// Publishing failures are logged and never undo the commit.
func WithEventPublisher(publisher ports.OrderEventPublisher, logger *slog.Logger) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.publisher = publisher
		if logger != nil {
			f.logger = logger.With("component", "GormUnitOfWork")
		}
	}
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := postgres.Open(ctx, postgres.Options{Driver: postgres.DriverPostgres, DSN: dsn})
//	if err != nil {
//	    return err
//	}
//	factory := postgres.NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...Option) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{
		db:     db,
		logger: slog.Default().With("component", "GormUnitOfWork"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create produces a new UnitOfWork instance with its own transaction state
// and aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written through its repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.OrderEventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then publishes the events recorded by
// tracked aggregates. Returns gorm.ErrInvalidTransaction when no transaction
// is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards the transaction and forgets tracked aggregates.
// Returns gorm.ErrInvalidTransaction when no transaction is active, which
// makes a deferred Rollback after Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// RestaurantRepository provides the restaurant directory within the unit of work.
func (uow *GormUnitOfWork) RestaurantRepository() ports.RestaurantRepository {
	return restaurantrepo.NewGormRestaurantRepository(uow.conn(), uow)
}

// OrderRepository provides order persistence within the unit of work.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// EngagementJobRepository provides the engagement job queue within the unit of work.
func (uow *GormUnitOfWork) EngagementJobRepository() ports.EngagementJobRepository {
	return jobrepo.NewGormJobRepository(uow.conn())
}

// FoodCatalog provides catalog lookups within the unit of work.
func (uow *GormUnitOfWork) FoodCatalog() ports.FoodCatalog {
	return foodrepo.NewGormFoodCatalog(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Called by repository implementations after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the active transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	for _, t := range tracked {
		source, ok := t.Aggregate.(eventSource)
		if !ok {
			continue
		}

		events := source.DomainEvents()
		source.ClearDomainEvents()
		if uow.publisher == nil {
			continue
		}

		for _, event := range events {
			if err := uow.publisher.Publish(ctx, event); err != nil {
				uow.logger.ErrorContext(ctx, "failed to publish order event",
					"event", string(event.Type),
					"order_id", event.OrderID.String(),
					"error", err)
			}
		}
	}
}
