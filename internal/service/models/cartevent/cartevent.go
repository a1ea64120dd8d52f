package cartevent

import (
	"time"
)

// Queue is the RabbitMQ queue cart events are published to.
const Queue = "storefront.cart.events"

// Cart event actions.
const (
	ActionItemAdded   = "item_added"
	ActionItemRemoved = "item_removed"
)

// Event describes a single cart mutation. Events are written to the outbox
// in the same transaction as the mutation itself and published
// asynchronously.
type Event struct {
	Action     string    `json:"action"`
	OrderID    int64     `json:"orderId"`
	ClientID   int64     `json:"clientId"`
	ProductID  int64     `json:"productId"`
	TotalValue float64   `json:"totalValue"`
	OccurredAt time.Time `json:"occurredAt"`
}
