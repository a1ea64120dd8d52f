package iclientrepo

import (
	"context"

	"github.com/lojinha/storefront/internal/service/models/client"
)

// PostgresRepository is an interface for the client postgres repository.
type PostgresRepository interface {
	List(ctx context.Context) ([]client.Client, error)
	GetByID(ctx context.Context, id int64) (*client.Client, error)
	Create(ctx context.Context, name, phone string) (int64, error)
	Update(ctx context.Context, id int64, name, phone string) error
	Delete(ctx context.Context, id int64) error
}
