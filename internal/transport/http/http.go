package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lojinha/storefront/internal/service/models/client"
	"github.com/lojinha/storefront/internal/service/models/order"
	"github.com/lojinha/storefront/internal/service/models/product"
	"github.com/lojinha/storefront/internal/transport/http/clientpages"
	"github.com/lojinha/storefront/internal/transport/http/shop"
	"github.com/lojinha/storefront/internal/transport/http/views"
	"github.com/lojinha/storefront/pkg/http/middleware/trace"
	"github.com/lojinha/storefront/pkg/logger"
	"github.com/spf13/viper"
)

type cartService interface {
	AddToCart(ctx context.Context, clientID, productID int64) bool
	RemoveFromCart(ctx context.Context, orderID, productID int64) bool
	ActiveCart(ctx context.Context, clientID int64) order.CartView
}

type catalogService interface {
	List(ctx context.Context) []product.Product
}

type clientService interface {
	List(ctx context.Context) []client.Client
	GetByID(ctx context.Context, id int64) client.Client
	Create(ctx context.Context, name, phone string) bool
	Update(ctx context.Context, id int64, name, phone string) bool
	Delete(ctx context.Context, id int64) bool
}

type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	cartSvc    cartService
	catalogSvc catalogService
	clientSvc  clientService
	views      *views.Renderer
}

func NewHTTPTransport(
	cartSvc cartService,
	catalogSvc catalogService,
	clientSvc clientService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:     server,
		router:     router,
		cartSvc:    cartSvc,
		catalogSvc: catalogSvc,
		clientSvc:  clientSvc,
		views:      views.MustNew(),
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/", h.home)

	h.router.Get("/comprar/{clienteID}", h.shopIndex)
	h.router.Get("/adicionar_ao_pedido/{clienteID}/{produtoID}", h.addToCart)
	h.router.Get("/carrinho/{clienteID}", h.cart)
	h.router.Post("/pedidos/excluir-item/{clienteID}/{pedidoID}/{produtoID}", h.removeItem)

	h.router.Route("/clientes", func(r chi.Router) {
		r.Get("/", h.clientsIndex)
		r.Get("/novo", h.clientNew)
		r.Post("/criar", h.clientCreate)
		r.Get("/{id}/editar", h.clientEdit)
		r.Post("/{id}/alterar", h.clientUpdate)
		r.Get("/{id}/excluir", h.clientDelete)
	})

	staticDir := viper.GetString("server.http.static_path")
	if staticDir == "" {
		staticDir = "./web/static"
	}
	h.router.Handle("/static/*",
		http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
}

func (h *HTTPTransport) home(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, "home", struct {
		Clients []client.Client
	}{
		Clients: h.clientSvc.List(r.Context()),
	})
}

func (h *HTTPTransport) shopIndex(w http.ResponseWriter, r *http.Request) {
	shop.Index(w, r, h.catalogSvc, h.views)
}

func (h *HTTPTransport) addToCart(w http.ResponseWriter, r *http.Request) {
	shop.AddToCart(w, r, h.cartSvc)
}

func (h *HTTPTransport) cart(w http.ResponseWriter, r *http.Request) {
	shop.Cart(w, r, h.cartSvc, h.views)
}

func (h *HTTPTransport) removeItem(w http.ResponseWriter, r *http.Request) {
	shop.RemoveItem(w, r, h.cartSvc)
}

func (h *HTTPTransport) clientsIndex(w http.ResponseWriter, r *http.Request) {
	clientpages.Index(w, r, h.clientSvc, h.views)
}

func (h *HTTPTransport) clientNew(w http.ResponseWriter, r *http.Request) {
	clientpages.NewForm(w, r, h.views)
}

func (h *HTTPTransport) clientCreate(w http.ResponseWriter, r *http.Request) {
	clientpages.Create(w, r, h.clientSvc)
}

func (h *HTTPTransport) clientEdit(w http.ResponseWriter, r *http.Request) {
	clientpages.EditForm(w, r, h.clientSvc, h.views)
}

func (h *HTTPTransport) clientUpdate(w http.ResponseWriter, r *http.Request) {
	clientpages.Update(w, r, h.clientSvc)
}

func (h *HTTPTransport) clientDelete(w http.ResponseWriter, r *http.Request) {
	clientpages.Delete(w, r, h.clientSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
