package shop

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lojinha/storefront/internal/service/models/order"
	"github.com/lojinha/storefront/internal/service/models/product"
)

// cartService is an interface for the cart service layer.
type cartService interface {
	AddToCart(ctx context.Context, clientID, productID int64) bool
	RemoveFromCart(ctx context.Context, orderID, productID int64) bool
	ActiveCart(ctx context.Context, clientID int64) order.CartView
}

// catalogService is an interface for the catalog service layer.
type catalogService interface {
	List(ctx context.Context) []product.Product
}

// renderer is an interface for the HTML view renderer.
type renderer interface {
	Render(w http.ResponseWriter, name string, data any)
}

type productsPage struct {
	ClientID int64
	Products []product.Product
}

type cartPage struct {
	ClientID int64
	Cart     order.CartView
}

// Index shows the product list for the shopping client.
func Index(w http.ResponseWriter, r *http.Request, catalog catalogService, view renderer) {
	clientID, err := pathID(r, "clienteID")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}

	view.Render(w, "products", productsPage{
		ClientID: clientID,
		Products: catalog.List(r.Context()),
	})
}

// AddToCart puts a product into the client's cart and sends the client to
// the cart page, or back home when the operation fails.
func AddToCart(w http.ResponseWriter, r *http.Request, cart cartService) {
	clientID, err := pathID(r, "clienteID")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}
	productID, err := pathID(r, "produtoID")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}

	if cart.AddToCart(r.Context(), clientID, productID) {
		http.Redirect(w, r, fmt.Sprintf("/carrinho/%d", clientID), http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Cart shows the client's active cart.
func Cart(w http.ResponseWriter, r *http.Request, cart cartService, view renderer) {
	clientID, err := pathID(r, "clienteID")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}

	view.Render(w, "cart", cartPage{
		ClientID: clientID,
		Cart:     cart.ActiveCart(r.Context(), clientID),
	})
}

// RemoveItem takes one unit of a product out of the order and returns to the
// cart page whether or not anything was removed.
func RemoveItem(w http.ResponseWriter, r *http.Request, cart cartService) {
	clientID, err := pathID(r, "clienteID")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}
	orderID, err := pathID(r, "pedidoID")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}
	productID, err := pathID(r, "produtoID")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}

	cart.RemoveFromCart(r.Context(), orderID, productID)
	http.Redirect(w, r, fmt.Sprintf("/carrinho/%d", clientID), http.StatusSeeOther)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
