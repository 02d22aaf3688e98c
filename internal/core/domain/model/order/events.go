package order

import (
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
)

// EventType is the routing key an order event is published under.
type EventType string

const (
	EventPlaced    EventType = "order.placed"
	EventEngaged   EventType = "order.engaged"
	EventDelivered EventType = "order.delivered"
)

// Event is a fact about an order's lifecycle. Events are recorded by the
// aggregate and published after the transaction that produced them commits.
type Event struct {
	Type                  EventType
	OrderID               kernel.UUID
	UserID                string
	RestaurantID          kernel.UUID
	Status                Status
	TotalPrice            kernel.Money
	DistanceKm            float64
	EstimatedDeliveryTime time.Time
	OccurredAt            time.Time
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

// ClearDomainEvents drops recorded events once they have been published.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) record(t EventType, at time.Time) {
	o.events = append(o.events, Event{
		Type:                  t,
		OrderID:               o.id,
		UserID:                o.userID,
		RestaurantID:          o.restaurantID,
		Status:                o.status,
		TotalPrice:            o.totalPrice,
		DistanceKm:            o.distanceKm,
		EstimatedDeliveryTime: o.estimatedDeliveryTime,
		OccurredAt:            at,
	})
}
