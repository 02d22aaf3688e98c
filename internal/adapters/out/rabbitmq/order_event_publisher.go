package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// ChannelPublisher is the publishing side of an AMQP channel.
type ChannelPublisher interface {
	PublishWithContext(
		ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing,
	) error
}

// ChannelSource hands out a usable channel per publish.
type ChannelSource interface {
	Channel() (ChannelPublisher, error)
	Exchange() string
}

// OrderEventMessage is the JSON body of every published order event.
type OrderEventMessage struct {
	EventID               string    `json:"event_id"`
	Type                  string    `json:"type"`
	OrderID               string    `json:"order_id"`
	UserID                string    `json:"user_id"`
	RestaurantID          string    `json:"restaurant_id"`
	Status                string    `json:"status"`
	TotalPrice            string    `json:"total_price"`
	DistanceKm            float64   `json:"distance_km"`
	EstimatedDeliveryTime time.Time `json:"estimated_delivery_time"`
	OccurredAt            time.Time `json:"occurred_at"`
}

// OrderEventPublisher publishes order events as persistent JSON messages.
type OrderEventPublisher struct {
	source ChannelSource
}

var _ ports.OrderEventPublisher = (*OrderEventPublisher)(nil)

func NewOrderEventPublisher(source ChannelSource) *OrderEventPublisher {
	return &OrderEventPublisher{source: source}
}

func (p *OrderEventPublisher) Publish(ctx context.Context, event order.Event) error {
	msg := OrderEventMessage{
		EventID:               uuid.NewString(),
		Type:                  string(event.Type),
		OrderID:               event.OrderID.String(),
		UserID:                event.UserID,
		RestaurantID:          event.RestaurantID.String(),
		Status:                event.Status.String(),
		TotalPrice:            event.TotalPrice.String(),
		DistanceKm:            event.DistanceKm,
		EstimatedDeliveryTime: event.EstimatedDeliveryTime.UTC(),
		OccurredAt:            event.OccurredAt.UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	channel, err := p.source.Channel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = channel.PublishWithContext(
		ctx,
		p.source.Exchange(), // exchange
		msg.Type,            // routing key
		false,               // mandatory
		false,               // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.EventID,
			Type:         msg.Type,
			Timestamp:    msg.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Type, err)
	}
	return nil
}
