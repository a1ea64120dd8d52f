package iorderitemrepo

import (
	"context"
)

// PostgresRepository is an interface for the order item postgres repository.
type PostgresRepository interface {
	Increment(ctx context.Context, orderID, productID int64) error
	Decrement(ctx context.Context, orderID, productID int64) (bool, error)
	RecomputeTotal(ctx context.Context, orderID int64) (float64, error)
}
