package iproductrepo

import (
	"context"

	"github.com/lojinha/storefront/internal/service/models/product"
)

// PostgresRepository is an interface for the product postgres repository.
type PostgresRepository interface {
	List(ctx context.Context) ([]product.Product, error)
	GetByID(ctx context.Context, id int64) (*product.Product, error)
}
