package order

import (
	"time"

	"github.com/lojinha/storefront/internal/service/models/client"
)

// CartItem is a product as it appears inside a cart view: catalog fields
// plus the quantity of that product in the order.
type CartItem struct {
	ProductID   int64   `json:"productId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// CartView is the read-only aggregate of an order, its owning client and its
// items. It is rebuilt on every read and never persisted.
type CartView struct {
	ID         int64         `json:"id"`
	ClientID   int64         `json:"clientId"`
	TotalValue float64       `json:"totalValue"`
	CreatedAt  time.Time     `json:"createdAt"`
	Paid       bool          `json:"paid"`
	Client     client.Client `json:"client"`
	Items      []CartItem    `json:"items"`
}

// EmptyCartView returns the view presented when a client has no active
// order: zeroed order fields and an empty item list. The presentation layer
// never has to distinguish "no cart" from "empty cart".
func EmptyCartView() CartView {
	return CartView{
		Items: []CartItem{},
	}
}
