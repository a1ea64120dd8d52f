package iorderrepo

import (
	"context"
	"time"

	"github.com/lojinha/storefront/internal/service/models/order"
)

// PostgresRepository is an interface for the order postgres repository.
type PostgresRepository interface {
	Create(ctx context.Context, clientID int64, createdAt time.Time) (int64, error)
	GetByID(ctx context.Context, orderID int64) (*order.Order, error)
	FindActive(ctx context.Context, clientID int64) (*order.Order, error)
	FindActiveView(ctx context.Context, clientID int64) (*order.CartView, error)
}
