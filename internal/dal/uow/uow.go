package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lojinha/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/lojinha/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/lojinha/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/lojinha/storefront/internal/dal/postgres"
	orderrepo "github.com/lojinha/storefront/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/lojinha/storefront/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/lojinha/storefront/internal/dal/repositories/outbox/postgres"
)

// unitOfWork binds the order, order item and outbox repositories to one
// connection. After Begin they all run on the same transaction, so a ledger
// mutation, the total recomputation and the cart event commit atomically.
type unitOfWork struct {
	client        *postgres.Client
	tx            pgx.Tx
	orderRepo     iorderrepo.PostgresRepository
	orderItemRepo iorderitemrepo.PostgresRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		client:        client,
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		outboxRepo:    outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.PostgresRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.PostgresRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
