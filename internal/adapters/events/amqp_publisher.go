// Package events publishes fleet lifecycle events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/core/ports"
	amqp "github.com/rabbitmq/amqp091-go"
)

// StatusChangedQueue receives one message per server status write.
const StatusChangedQueue = "server.status_changed"

// AMQPPublisher keeps one connection and channel open and redials lazily
// when the broker drops them.
type AMQPPublisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ ports.ServerEventPublisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher dials the broker once so that a bad URL fails at startup.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connectLocked() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(
		StatusChangedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *AMQPPublisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// newStatusChangedMessage encodes event as a persistent JSON message.
func newStatusChangedMessage(event domain.ServerStatusChanged) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt.UTC(),
		Type:         "server.status_changed",
		Body:         body,
	}, nil
}

func (p *AMQPPublisher) PublishStatusChanged(ctx context.Context, event domain.ServerStatusChanged) error {
	msg, err := newStatusChangedMessage(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.closeLocked()
		if err := p.connectLocked(); err != nil {
			return err
		}
	}

	if err := p.ch.PublishWithContext(ctx,
		"",                 // default exchange
		StatusChangedQueue, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		msg,
	); err != nil {
		p.closeLocked()
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	slog.DebugContext(ctx, "Published server status event", "server_id", event.ServerID, "to", event.To)
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}
