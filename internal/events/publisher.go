package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrQueueFull is returned when the in-process buffer cannot take more events.
	ErrQueueFull = errors.New("event queue full")
	// ErrPublisherClosed is returned for events published after Close.
	ErrPublisherClosed = errors.New("event publisher closed")
)

const publishTimeout = 5 * time.Second

// AMQPPublisher buffers events on a channel and publishes them from a single
// background goroutine over one long-lived connection.
type AMQPPublisher struct {
	url    string
	logger *slog.Logger
	events chan OrderPlaced
	done   chan struct{}

	// mu guards closed and the close of events against concurrent sends.
	mu     sync.RWMutex
	closed bool

	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher starts the publishing worker. The broker is dialled
// lazily, so a broker outage at startup does not prevent the API from booting.
func NewAMQPPublisher(url string, logger *slog.Logger) *AMQPPublisher {
	p := newAMQPPublisher(url, logger, 256)
	go p.run()
	return p
}

func newAMQPPublisher(url string, logger *slog.Logger, buffer int) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{
		url:    url,
		logger: logger,
		events: make(chan OrderPlaced, buffer),
		done:   make(chan struct{}),
	}
}

// PublishOrderPlaced enqueues the event without waiting for the broker.
func (p *AMQPPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Close drains buffered events and closes the broker connection. Later
// publishes return ErrPublisherClosed.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()
	<-p.done
	return nil
}

func (p *AMQPPublisher) run() {
	defer close(p.done)
	defer p.disconnect()

	for event := range p.events {
		body, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("events: marshal failed", "order_id", event.OrderID, "error", err)
			continue
		}
		// One reconnect attempt per event; a dead broker must not stall the queue.
		if err := p.publish(body); err != nil {
			p.disconnect()
			if err := p.publish(body); err != nil {
				p.logger.Warn("events: publish failed", "order_id", event.OrderID, "error", err)
				continue
			}
		}
		p.logger.Debug("events: published", "queue", OrderPlacedQueue, "order_id", event.OrderID)
	}
}

func (p *AMQPPublisher) publish(body []byte) error {
	if err := p.connect(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(ctx,
		"",               // default exchange
		OrderPlacedQueue, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) connect() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) disconnect() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
