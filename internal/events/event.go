// Package events carries domain events between the API and background workers.
package events

import (
	"context"
	"time"
)

// OrderPlacedQueue is the durable queue order events are published to.
const OrderPlacedQueue = "order.placed"

// OrderPlaced is published after an order has been persisted. It holds enough
// data for consumers to log or notify without querying the database.
type OrderPlaced struct {
	OrderID  string            `json:"order_id"`
	UserID   string            `json:"user_id"`
	Name     string            `json:"name"`
	Total    string            `json:"total"`
	Status   string            `json:"status"`
	Items    []OrderPlacedItem `json:"items"`
	PlacedAt time.Time         `json:"placed_at"`
}

// OrderPlacedItem is a line item snapshot.
type OrderPlacedItem struct {
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Publisher delivers domain events. Implementations must not block the
// request path for long.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }
