package cartsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lojinha/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/lojinha/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/lojinha/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/lojinha/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/lojinha/storefront/internal/dal/postgres"
	productrepo "github.com/lojinha/storefront/internal/dal/repositories/product/postgres"
	"github.com/lojinha/storefront/internal/dal/uow"
	"github.com/lojinha/storefront/internal/service/errs"
	"github.com/lojinha/storefront/internal/service/models/cartevent"
	"github.com/lojinha/storefront/internal/service/models/order"
	"github.com/lojinha/storefront/internal/service/models/outbox"
)

const eventMaxRetries = 5

// CartService maintains the active order of each client. It is the boundary
// that collapses storage errors into the success/failure signal the
// presentation layer consumes; underlying errors are logged here.
type CartService struct {
	pgClient    *postgres.Client
	newUOW      func() unitOfWork
	productRepo iproductrepo.PostgresRepository
	now         func() time.Time
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.PostgresRepository
	OrderItemRepository() iorderitemrepo.PostgresRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the CartService.
type option func(*CartService)

// MustNewCartService creates a new CartService.
func MustNewCartService(opts ...option) *CartService {
	s := &CartService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil || s.productRepo == nil {
		panic("cartsvc: postgres client not configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CartService) {
		s.pgClient = pgClient
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
		s.productRepo = productrepo.NewPostgresProductRepository(pgClient.Pool())
	}
}

// WithUnitOfWorkFactory overrides the unit of work factory. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *CartService) {
		s.newUOW = factory
	}
}

// WithProductRepository overrides the product repository. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.PostgresRepository) option {
	return func(s *CartService) {
		s.productRepo = repo
	}
}

// WithClock overrides the time source. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *CartService) {
		s.now = now
	}
}

// AddToCart puts one unit of the product into the client's active order,
// creating the order first when the client has none. Reports success or
// failure only; the underlying error is logged.
func (s *CartService) AddToCart(ctx context.Context, clientID, productID int64) bool {
	ord, err := s.ensureActiveOrder(ctx, clientID)
	if err != nil {
		slog.Error("Failed to resolve active order",
			"client_id", clientID,
			"error", err,
		)

		return false
	}

	prod, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		slog.Error("Failed to look up product",
			"product_id", productID,
			"error", err,
		)

		return false
	}

	err = s.mutateLedger(ctx, cartevent.ActionItemAdded, ord.ID, clientID, prod.ID,
		func(ctx context.Context, items iorderitemrepo.PostgresRepository) (bool, error) {
			if err := items.Increment(ctx, ord.ID, prod.ID); err != nil {
				return false, err
			}

			return true, nil
		})
	if err != nil {
		slog.Error("Failed to add product to order",
			"order_id", ord.ID,
			"product_id", prod.ID,
			"error", err,
		)

		return false
	}

	return true
}

// RemoveFromCart takes one unit of the product out of the order. Removing a
// product that is not in the order, or from an order that does not exist,
// succeeds without touching anything.
func (s *CartService) RemoveFromCart(ctx context.Context, orderID, productID int64) bool {
	ord, err := s.newUOW().OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return true
		}

		slog.Error("Failed to look up order",
			"order_id", orderID,
			"error", err,
		)

		return false
	}

	err = s.mutateLedger(ctx, cartevent.ActionItemRemoved, ord.ID, ord.ClientID, productID,
		func(ctx context.Context, items iorderitemrepo.PostgresRepository) (bool, error) {
			return items.Decrement(ctx, ord.ID, productID)
		})
	if err != nil {
		slog.Error("Failed to remove product from order",
			"order_id", orderID,
			"product_id", productID,
			"error", err,
		)

		return false
	}

	return true
}

// ActiveCart returns the client's cart for presentation. A missing cart and
// a storage failure both come back as the empty view; the caller never sees
// an error.
func (s *CartService) ActiveCart(ctx context.Context, clientID int64) order.CartView {
	view, err := s.newUOW().OrderRepository().FindActiveView(ctx, clientID)
	if err != nil {
		slog.Error("Failed to load active cart",
			"client_id", clientID,
			"error", err,
		)

		return order.EmptyCartView()
	}
	if view == nil {
		return order.EmptyCartView()
	}

	return *view
}

// ensureActiveOrder finds the client's active order, creating one when none
// exists. A unique violation on create means a concurrent call won the
// find-or-create race, so the order is re-read exactly once.
func (s *CartService) ensureActiveOrder(ctx context.Context, clientID int64) (*order.Order, error) {
	repo := s.newUOW().OrderRepository()

	ord, err := repo.FindActive(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if ord != nil {
		return ord, nil
	}

	createdAt := s.now()
	id, err := repo.Create(ctx, clientID, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			ord, findErr := repo.FindActive(ctx, clientID)
			if findErr != nil {
				return nil, findErr
			}
			if ord == nil {
				return nil, fmt.Errorf("active order vanished after create conflict: %w", err)
			}

			return ord, nil
		}

		return nil, err
	}

	return &order.Order{
		ID:        id,
		ClientID:  clientID,
		CreatedAt: createdAt,
	}, nil
}

// mutateLedger runs the item mutation, the total recomputation and the cart
// event insert in a single transaction. A mutation that changed nothing
// leaves the total and the outbox alone.
func (s *CartService) mutateLedger(
	ctx context.Context,
	action string,
	orderID, clientID, productID int64,
	mutate func(ctx context.Context, items iorderitemrepo.PostgresRepository) (bool, error),
) error {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	changed, err := mutate(ctx, work.OrderItemRepository())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	total, err := work.OrderItemRepository().RecomputeTotal(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.recordEvent(ctx, work.OutboxRepository(), cartevent.Event{
		Action:     action,
		OrderID:    orderID,
		ClientID:   clientID,
		ProductID:  productID,
		TotalValue: total,
		OccurredAt: s.now(),
	}); err != nil {
		return err
	}

	return work.Commit(ctx)
}

func (s *CartService) recordEvent(
	ctx context.Context,
	repo ioutboxrepo.IOutboxRepository,
	event cartevent.Event,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cart event: %w", err)
	}

	now := s.now()

	return repo.Insert(ctx, outbox.Message{
		QueueName:   cartevent.Queue,
		RoutingKey:  cartevent.Queue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  eventMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
