package order

import (
	"time"
)

// Order represents a client's order. The order with Paid == false is the
// client's active cart; TotalValue is derived from the order items and
// recomputed on every mutation, never patched incrementally.
type Order struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"clientId"`
	TotalValue float64   `json:"totalValue"`
	CreatedAt  time.Time `json:"createdAt"`
	Paid       bool      `json:"paid"`
}
