// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fooddispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest combination of repositories it needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RestaurantRepoFactory provides access to restaurant repository within a transaction.
	RestaurantRepoFactory interface {
		RestaurantRepository() ports.RestaurantRepository
	}

	// EngagementJobRepoFactory provides access to the engagement job queue within a transaction.
	EngagementJobRepoFactory interface {
		EngagementJobRepository() ports.EngagementJobRepository
	}

	// FoodCatalogFactory provides access to the food catalog within a transaction.
	FoodCatalogFactory interface {
		FoodCatalog() ports.FoodCatalog
	}

	// DispatchUoW covers everything an order placement touches: the directory
	// claim, the catalog lookup, the order row and its first engagement job.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   restaurants := uow.RestaurantRepository()
	//   orders := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	DispatchUoW interface {
		TxManager
		RestaurantRepoFactory
		FoodCatalogFactory
		OrderRepoFactory
		EngagementJobRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// EngagementUoW manages transactions for the engagement phases, which
	// update an order and its restaurant and may schedule the next phase.
	EngagementUoW interface {
		TxManager
		OrderRepoFactory
		RestaurantRepoFactory
		EngagementJobRepoFactory
	}

	// EngagementUoWFactory creates new engagement unit of work instances.
	EngagementUoWFactory interface {
		Create() EngagementUoW
	}

	// RestaurantUoW manages transactions for restaurant-only operations.
	RestaurantUoW interface {
		TxManager
		RestaurantRepoFactory
	}

	// RestaurantUoWFactory creates new restaurant unit of work instances.
	RestaurantUoWFactory interface {
		Create() RestaurantUoW
	}
)
