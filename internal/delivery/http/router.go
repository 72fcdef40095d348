package http

import (
	"net/http"

	"github.com/mveldsman/storefront-service/internal/delivery/http/handlers"
	"github.com/mveldsman/storefront-service/internal/delivery/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Notify   *handlers.NotifyHandler
	Order    *handlers.OrderHandler
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Webhook endpoint: no session, the processor posts here.
	r.Post("/payment/notify", h.Notify.Notify)

	// Browser lands here after the processor redirect.
	r.Get("/payment/return", h.Order.PaymentReturn)
	r.Get("/payment/cancel", h.Order.PaymentCancel)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session)

		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{id}", h.Catalog.GetProduct)

		r.Get("/cart", h.Cart.GetCart)
		r.Post("/cart", h.Cart.AddItem)
		r.Put("/cart", h.Cart.UpdateItem)
		r.Delete("/cart", h.Cart.Clear)

		r.Post("/checkout", h.Checkout.Checkout)

		r.Get("/orders/{id}", h.Order.GetOrder)
		r.Get("/orders/by-reference/{ref}", h.Order.GetOrderByReference)
	})

	return r
}
