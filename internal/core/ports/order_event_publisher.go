package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/order"
)

// OrderEventPublisher delivers order lifecycle events to downstream consumers
// such as notification services.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event order.Event) error
}
