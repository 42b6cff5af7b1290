package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes a single decoded event.
type Handler func(OrderPlaced) error

// Consume connects to the broker, declares the order queue and feeds every
// delivery to handle. It reconnects with exponential backoff until ctx is done.
func Consume(ctx context.Context, url string, handle Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn("order-consumer: dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, handle, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("order-consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("order-consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(OrderPlacedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleDelivery(d.Body, handle); err != nil {
				logger.Error("order-consumer: handle message failed", "error", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleDelivery decodes a raw message body and passes it to handle.
func HandleDelivery(body []byte, handle Handler) error {
	var ev OrderPlaced
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.OrderID == "" {
		return errors.New("event has no order id")
	}
	return handle(ev)
}

// FormatOrderLine renders an event as one human readable log line.
func FormatOrderLine(ev OrderPlaced) string {
	names := make([]string, 0, len(ev.Items))
	for _, it := range ev.Items {
		names = append(names, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
	}
	return fmt.Sprintf("[%s] Order placed | order_id=%s | user_id=%s | name=%q | total=%s | items=[%s]\n",
		ev.PlacedAt.UTC().Format(time.RFC3339), ev.OrderID, ev.UserID, ev.Name, ev.Total, strings.Join(names, ","))
}

// FileLogHandler appends every event to dir/orders.log.
func FileLogHandler(dir string) Handler {
	return func(ev OrderPlaced) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir logs: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "orders.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()

		if _, err := f.WriteString(FormatOrderLine(ev)); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
		return nil
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
