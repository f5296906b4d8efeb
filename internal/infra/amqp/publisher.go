package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"resume-parser/internal/domain"

	"github.com/streadway/amqp"
)

// Publisher sends session events to a RabbitMQ topic exchange under the
// routing key session.<state>.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   domain.Logger

	mu sync.Mutex
}

// NewPublisher dials url and declares exchange as a durable topic exchange.
func NewPublisher(url, exchange string, logger domain.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info("AMQP publisher ready", "exchange", exchange)
	return &Publisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

// RoutingKey is the routing key events in state are published under.
func RoutingKey(state domain.SessionState) string {
	return "session." + string(state)
}

func (p *Publisher) Publish(ctx context.Context, event domain.SessionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode session event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Publish(
		p.exchange,
		RoutingKey(event.State),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NopPublisher discards events. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.SessionEvent) error { return nil }
