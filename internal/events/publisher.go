package events

import (
	"context"
	"time"
)

// Event names emitted by the core stores. The notification layer
// (UI toasts, webhooks) subscribes to these; the core never formats
// or displays them.
const (
	OrderCreated        = "order.created"
	OrderStatusChanged  = "order.status_changed"
	InventoryLowStock   = "inventory.low_stock"
	InventoryOutOfStock = "inventory.out_of_stock"
	PaymentCompleted    = "payment.completed"
)

type Event struct {
	Name       string         `json:"name"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Publisher is the notification sink boundary. Implementations must
// not block store mutations on delivery failures.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e Event) error { return nil }
