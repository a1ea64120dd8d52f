package cartsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lojinha/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/lojinha/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/lojinha/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/lojinha/storefront/internal/service/errs"
	"github.com/lojinha/storefront/internal/service/models/cartevent"
	"github.com/lojinha/storefront/internal/service/models/order"
	"github.com/lojinha/storefront/internal/service/models/outbox"
	"github.com/lojinha/storefront/internal/service/models/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairKey struct {
	orderID   int64
	productID int64
}

// memStore is a shared in-memory stand-in for the database. The fake
// repositories below mutate it directly.
type memStore struct {
	nextOrderID int64
	orders      map[int64]*order.Order
	items       map[pairKey]int
	products    map[int64]product.Product
	events      []outbox.Message

	createCalls int
	commits     int
	rollbacks   int

	createErr        error
	conflictOnCreate bool
	findActiveErr    error
	findViewErr      error
}

func newMemStore() *memStore {
	return &memStore{
		nextOrderID: 1,
		orders:      map[int64]*order.Order{},
		items:       map[pairKey]int{},
		products:    map[int64]product.Product{},
	}
}

func (m *memStore) activeOrder(clientID int64) *order.Order {
	for _, o := range m.orders {
		if o.ClientID == clientID && !o.Paid {
			return o
		}
	}

	return nil
}

func (m *memStore) insertOrder(clientID int64, createdAt time.Time) int64 {
	id := m.nextOrderID
	m.nextOrderID++
	m.orders[id] = &order.Order{ID: id, ClientID: clientID, CreatedAt: createdAt}

	return id
}

func (m *memStore) quantity(orderID, productID int64) int {
	return m.items[pairKey{orderID, productID}]
}

func uniqueViolation() error {
	return fmt.Errorf("failed to insert order: %w", &pgconn.PgError{Code: "23505"})
}

type fakeOrderRepo struct {
	store *memStore
}

func (f *fakeOrderRepo) Create(_ context.Context, clientID int64, createdAt time.Time) (int64, error) {
	f.store.createCalls++
	if f.store.createErr != nil {
		return 0, f.store.createErr
	}
	if f.store.conflictOnCreate {
		// A concurrent call won the race: its order is already there.
		f.store.conflictOnCreate = false
		f.store.insertOrder(clientID, createdAt)

		return 0, uniqueViolation()
	}
	if f.store.activeOrder(clientID) != nil {
		return 0, uniqueViolation()
	}

	return f.store.insertOrder(clientID, createdAt), nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, orderID int64) (*order.Order, error) {
	o, ok := f.store.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", orderID, errs.ErrNotFound)
	}
	cp := *o

	return &cp, nil
}

func (f *fakeOrderRepo) FindActive(_ context.Context, clientID int64) (*order.Order, error) {
	if f.store.findActiveErr != nil {
		return nil, f.store.findActiveErr
	}
	if o := f.store.activeOrder(clientID); o != nil {
		cp := *o
		return &cp, nil
	}

	return nil, nil
}

func (f *fakeOrderRepo) FindActiveView(_ context.Context, clientID int64) (*order.CartView, error) {
	if f.store.findViewErr != nil {
		return nil, f.store.findViewErr
	}
	o := f.store.activeOrder(clientID)
	if o == nil || len(f.store.itemsOf(o.ID)) == 0 {
		return nil, nil
	}

	view := &order.CartView{
		ID:         o.ID,
		ClientID:   o.ClientID,
		TotalValue: o.TotalValue,
		CreatedAt:  o.CreatedAt,
		Items:      []order.CartItem{},
	}
	for _, item := range f.store.itemsOf(o.ID) {
		view.Items = append(view.Items, item)
	}

	return view, nil
}

func (m *memStore) itemsOf(orderID int64) []order.CartItem {
	var result []order.CartItem
	for key, qty := range m.items {
		if key.orderID != orderID {
			continue
		}
		p := m.products[key.productID]
		result = append(result, order.CartItem{
			ProductID: key.productID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
		})
	}

	return result
}

type fakeOrderItemRepo struct {
	store *memStore
}

func (f *fakeOrderItemRepo) Increment(_ context.Context, orderID, productID int64) error {
	f.store.items[pairKey{orderID, productID}]++

	return nil
}

func (f *fakeOrderItemRepo) Decrement(_ context.Context, orderID, productID int64) (bool, error) {
	key := pairKey{orderID, productID}
	qty, ok := f.store.items[key]
	if !ok {
		return false, nil
	}
	if qty > 1 {
		f.store.items[key] = qty - 1
	} else {
		delete(f.store.items, key)
	}

	return true, nil
}

func (f *fakeOrderItemRepo) RecomputeTotal(_ context.Context, orderID int64) (float64, error) {
	total := 0.0
	for key, qty := range f.store.items {
		if key.orderID == orderID {
			total += f.store.products[key.productID].Price * float64(qty)
		}
	}
	if o, ok := f.store.orders[orderID]; ok {
		o.TotalValue = total
	}

	return total, nil
}

type fakeOutboxRepo struct {
	store *memStore
}

func (f *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	f.store.events = append(f.store.events, msg)

	return nil
}

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

type fakeUOW struct {
	store *memStore
}

func (f *fakeUOW) Begin(_ context.Context) error    { return nil }
func (f *fakeUOW) Commit(_ context.Context) error   { f.store.commits++; return nil }
func (f *fakeUOW) Rollback(_ context.Context) error { f.store.rollbacks++; return nil }

func (f *fakeUOW) OrderRepository() iorderrepo.PostgresRepository {
	return &fakeOrderRepo{store: f.store}
}

func (f *fakeUOW) OrderItemRepository() iorderitemrepo.PostgresRepository {
	return &fakeOrderItemRepo{store: f.store}
}

func (f *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &fakeOutboxRepo{store: f.store}
}

type fakeProductRepo struct {
	store *memStore
}

func (f *fakeProductRepo) List(_ context.Context) ([]product.Product, error) {
	var result []product.Product
	for _, p := range f.store.products {
		result = append(result, p)
	}

	return result, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := f.store.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, errs.ErrNotFound)
	}

	return &p, nil
}

func newTestService(store *memStore) *CartService {
	return MustNewCartService(
		WithUnitOfWorkFactory(func() unitOfWork {
			return &fakeUOW{store: store}
		}),
		WithProductRepository(&fakeProductRepo{store: store}),
		WithClock(func() time.Time {
			return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		}),
	)
}

func TestAddToCartCreatesOrderOnce(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Name: "Café", Price: 10.0}
	svc := newTestService(store)

	ok := svc.AddToCart(context.Background(), 7, 3)

	require.True(t, ok)
	assert.Equal(t, 1, store.createCalls)
	require.Len(t, store.orders, 1)
	ord := store.activeOrder(7)
	require.NotNil(t, ord)
	assert.Equal(t, 1, store.quantity(ord.ID, 3))
	assert.Equal(t, 10.0, ord.TotalValue)
	assert.Len(t, store.events, 1)
}

func TestAddRemoveScenario(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Name: "Café", Price: 10.0}
	svc := newTestService(store)
	ctx := context.Background()

	require.True(t, svc.AddToCart(ctx, 7, 3))
	require.True(t, svc.AddToCart(ctx, 7, 3))

	ord := store.activeOrder(7)
	require.NotNil(t, ord)
	assert.Equal(t, 2, store.quantity(ord.ID, 3))
	assert.Equal(t, 20.0, ord.TotalValue)
	assert.Len(t, store.orders, 1, "second add must reuse the active order")

	require.True(t, svc.RemoveFromCart(ctx, ord.ID, 3))
	assert.Equal(t, 1, store.quantity(ord.ID, 3))
	assert.Equal(t, 10.0, ord.TotalValue)

	require.True(t, svc.RemoveFromCart(ctx, ord.ID, 3))
	assert.Zero(t, store.quantity(ord.ID, 3))
	assert.Empty(t, store.items, "quantity 1 must remove the row, not store zero")
	assert.Equal(t, 0.0, ord.TotalValue, "total of an emptied order is zero")

	assert.Len(t, store.events, 4)
}

func TestRemoveMissingPairIsNoop(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Price: 10.0}
	svc := newTestService(store)
	ctx := context.Background()

	require.True(t, svc.AddToCart(ctx, 7, 3))
	ord := store.activeOrder(7)
	require.NotNil(t, ord)
	eventsBefore := len(store.events)

	ok := svc.RemoveFromCart(ctx, ord.ID, 999)

	assert.True(t, ok)
	assert.Equal(t, 1, store.quantity(ord.ID, 3))
	assert.Equal(t, 10.0, ord.TotalValue)
	assert.Len(t, store.events, eventsBefore, "a removal that changed nothing must not record an event")

	ok = svc.RemoveFromCart(ctx, 999, 3)

	assert.True(t, ok, "removing from a nonexistent order is a no-op success")
	assert.Len(t, store.events, eventsBefore)
}

func TestRemoveEventCarriesClientID(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Price: 10.0}
	svc := newTestService(store)
	ctx := context.Background()

	require.True(t, svc.AddToCart(ctx, 7, 3))
	ord := store.activeOrder(7)
	require.NotNil(t, ord)

	require.True(t, svc.RemoveFromCart(ctx, ord.ID, 3))

	require.Len(t, store.events, 2)
	var event cartevent.Event
	require.NoError(t, json.Unmarshal(store.events[1].Payload, &event))
	assert.Equal(t, cartevent.ActionItemRemoved, event.Action)
	assert.Equal(t, ord.ID, event.OrderID)
	assert.Equal(t, int64(7), event.ClientID)
	assert.Equal(t, int64(3), event.ProductID)
}

func TestAddUnknownProductFails(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Price: 10.0}
	svc := newTestService(store)
	ctx := context.Background()

	require.True(t, svc.AddToCart(ctx, 7, 3))
	ord := store.activeOrder(7)
	require.NotNil(t, ord)
	eventsBefore := len(store.events)

	ok := svc.AddToCart(ctx, 7, 999)

	assert.False(t, ok)
	assert.Equal(t, 1, store.quantity(ord.ID, 3))
	assert.Equal(t, 10.0, ord.TotalValue)
	assert.Len(t, store.events, eventsBefore, "failed add must not record an event")
}

func TestAddToCartCreateFailureIsTerminal(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Price: 10.0}
	store.createErr = errors.New("db down")
	svc := newTestService(store)

	ok := svc.AddToCart(context.Background(), 7, 3)

	assert.False(t, ok)
	assert.Equal(t, 1, store.createCalls, "a failed creation is not retried")
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestAddToCartLostCreateRace(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Price: 10.0}
	store.conflictOnCreate = true
	svc := newTestService(store)

	ok := svc.AddToCart(context.Background(), 7, 3)

	require.True(t, ok)
	assert.Len(t, store.orders, 1, "the winner's order is reused, not duplicated")
	ord := store.activeOrder(7)
	require.NotNil(t, ord)
	assert.Equal(t, 1, store.quantity(ord.ID, 3))
}

func TestActiveOrderUniqueness(t *testing.T) {
	store := newMemStore()
	store.products[1] = product.Product{ID: 1, Price: 2.5}
	store.products[2] = product.Product{ID: 2, Price: 4.0}
	svc := newTestService(store)
	ctx := context.Background()

	require.True(t, svc.AddToCart(ctx, 7, 1))
	require.True(t, svc.AddToCart(ctx, 7, 2))
	require.True(t, svc.AddToCart(ctx, 7, 1))

	assert.Len(t, store.orders, 1)
	ord := store.activeOrder(7)
	require.NotNil(t, ord)
	assert.Equal(t, 2, store.quantity(ord.ID, 1))
	assert.Equal(t, 1, store.quantity(ord.ID, 2))
	assert.Equal(t, 9.0, ord.TotalValue)
}

func TestActiveCartNoOrders(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	view := svc.ActiveCart(context.Background(), 7)

	assert.Zero(t, view.ID)
	assert.Zero(t, view.TotalValue)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
}

func TestActiveCartStorageErrorDegradesToEmptyView(t *testing.T) {
	store := newMemStore()
	store.findViewErr = errors.New("db down")
	svc := newTestService(store)

	view := svc.ActiveCart(context.Background(), 7)

	assert.Zero(t, view.ID)
	assert.Empty(t, view.Items)
}

func TestActiveCartReturnsItems(t *testing.T) {
	store := newMemStore()
	store.products[3] = product.Product{ID: 3, Name: "Café", Price: 10.0}
	svc := newTestService(store)
	ctx := context.Background()

	require.True(t, svc.AddToCart(ctx, 7, 3))
	require.True(t, svc.AddToCart(ctx, 7, 3))

	view := svc.ActiveCart(ctx, 7)

	assert.Equal(t, 20.0, view.TotalValue)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Café", view.Items[0].Name)
	assert.Equal(t, 2, view.Items[0].Quantity)
}
