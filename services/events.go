package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/weddingbook/marketplace-api/models"
)

// Booking lifecycle event types
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingCancelled     = "booking.cancelled"
)

// BookingEvent is published after a booking change has been committed
type BookingEvent struct {
	Type           string               `json:"type"`
	BookingID      uint                 `json:"booking_id"`
	UserID         uint                 `json:"user_id"`
	PackageID      uint                 `json:"package_id"`
	ProviderID     *uint                `json:"provider_id,omitempty"`
	Status         models.BookingStatus `json:"status"`
	PreviousStatus models.BookingStatus `json:"previous_status,omitempty"`
	ActorID        uint                 `json:"actor_id"`
	MessageID      *uint                `json:"message_id,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

func newBookingEvent(eventType string, booking *models.Booking, actor uint) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		PackageID:  booking.PackageID,
		ProviderID: booking.ProviderID,
		Status:     booking.Status,
		ActorID:    actor,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher delivers booking events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BookingEvent) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

// AMQPPublisher publishes events as persistent JSON messages to a durable queue.
// A closed connection or channel is reopened on the next Publish.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the events queue
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, queue: queue}
	if err := p.open(); err != nil {
		if p.conn != nil {
			_ = p.conn.Close()
		}
		return nil, err
	}
	log.Printf("RabbitMQ publisher ready on queue %s", queue)
	return p, nil
}

// open (re)establishes whatever part of the connection is gone. Callers hold mu,
// except NewAMQPPublisher before the publisher is shared.
func (p *AMQPPublisher) open() error {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return fmt.Errorf("rabbitmq: dial failed: %w", err)
		}
		p.conn, p.ch = conn, nil
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		_ = ch.Close()
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	p.ch = ch
	return nil
}

// Publish sends event to the queue. AMQP channels are not safe for concurrent use.
func (p *AMQPPublisher) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.open(); err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

// Close shuts down the channel and connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil && !p.ch.IsClosed() {
		if err := p.ch.Close(); err != nil {
			log.Printf("rabbitmq: channel close failed: %v", err)
		}
	}
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

var eventPublisherInstance EventPublisher = NoopPublisher{}

// GetEventPublisher returns the process-wide event publisher
func GetEventPublisher() EventPublisher {
	return eventPublisherInstance
}

// SetEventPublisher replaces the process-wide event publisher
func SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = NoopPublisher{}
	}
	eventPublisherInstance = p
}

// eventPublishTimeout bounds a single publish once the request's own deadline no longer applies
const eventPublishTimeout = 5 * time.Second

// publishBestEffort logs and swallows publish failures so they never undo a committed change.
// The change is already committed, so the publish outlives a cancelled request context.
func publishBestEffort(ctx context.Context, p EventPublisher, event BookingEvent) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := p.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s for booking %d: %v", event.Type, event.BookingID, err)
	}
}
