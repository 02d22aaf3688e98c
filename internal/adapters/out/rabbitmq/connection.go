// Package rabbitmq publishes order lifecycle events to a RabbitMQ topic
// exchange. Routing keys are the event types (order.placed, order.engaged,
// order.delivered), so consumers can bind to "order.*" or to a single event.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "orders_events"
	connectAttempts = 5
)

var ErrConnectionClosed = errors.New("rabbitmq connection is closed")

// Connection owns one AMQP connection and channel and re-dials them when the
// broker drops the connection.
type Connection struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	closed   bool
	logger   *slog.Logger
}

// Dial connects with retries and declares the durable topic exchange.
func Dial(ctx context.Context, url, exchange string, logger *slog.Logger) (*Connection, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	c := &Connection{
		url:      url,
		exchange: exchange,
		logger:   logger.With("component", "rabbitmq"),
	}

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = c.connect(); err == nil {
			return c, nil
		}
		if attempt == connectAttempts {
			break
		}

		wait := time.Duration(attempt) * 2 * time.Second
		c.logger.WarnContext(ctx, "Failed to connect to RabbitMQ, retrying",
			"attempt", attempt, "retry_in", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", connectAttempts, err)
}

func (c *Connection) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	err = channel.ExchangeDeclare(
		c.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare %s exchange: %w", c.exchange, err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

// Exchange is the name of the declared topic exchange.
func (c *Connection) Exchange() string {
	return c.exchange
}

// Channel returns the live channel, re-dialing once if the broker closed it.
func (c *Connection) Channel() (ChannelPublisher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}
	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		if err := c.connect(); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	return c.channel, nil
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
