package shop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lojinha/storefront/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCart struct {
	addOK     bool
	removed   [][2]int64
	lastAdd   [2]int64
	addCalled bool
}

func (s *stubCart) AddToCart(_ context.Context, clientID, productID int64) bool {
	s.addCalled = true
	s.lastAdd = [2]int64{clientID, productID}

	return s.addOK
}

func (s *stubCart) RemoveFromCart(_ context.Context, orderID, productID int64) bool {
	s.removed = append(s.removed, [2]int64{orderID, productID})

	return true
}

func (s *stubCart) ActiveCart(_ context.Context, _ int64) order.CartView {
	return order.EmptyCartView()
}

func newAddRouter(cart *stubCart) *chi.Mux {
	router := chi.NewMux()
	router.Get("/adicionar_ao_pedido/{clienteID}/{produtoID}", func(w http.ResponseWriter, r *http.Request) {
		AddToCart(w, r, cart)
	})
	router.Post("/pedidos/excluir-item/{clienteID}/{pedidoID}/{produtoID}", func(w http.ResponseWriter, r *http.Request) {
		RemoveItem(w, r, cart)
	})

	return router
}

func TestAddToCartRedirectsToCart(t *testing.T) {
	cart := &stubCart{addOK: true}
	router := newAddRouter(cart)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/adicionar_ao_pedido/7/3", nil))

	require.True(t, cart.addCalled)
	assert.Equal(t, [2]int64{7, 3}, cart.lastAdd)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/carrinho/7", rec.Header().Get("Location"))
}

func TestAddToCartFailureRedirectsHome(t *testing.T) {
	cart := &stubCart{addOK: false}
	router := newAddRouter(cart)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/adicionar_ao_pedido/7/3", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAddToCartBadIDRedirectsHomeWithoutCalling(t *testing.T) {
	cart := &stubCart{addOK: true}
	router := newAddRouter(cart)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/adicionar_ao_pedido/abc/3", nil))

	assert.False(t, cart.addCalled)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRemoveItemAlwaysReturnsToCart(t *testing.T) {
	cart := &stubCart{}
	router := newAddRouter(cart)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pedidos/excluir-item/7/42/3", nil))

	require.Len(t, cart.removed, 1)
	assert.Equal(t, [2]int64{42, 3}, cart.removed[0])
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/carrinho/7", rec.Header().Get("Location"))
}
