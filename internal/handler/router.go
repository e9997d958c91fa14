package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommiddleware "github.com/gasgalon/orderflow/internal/middleware"
	"github.com/gasgalon/orderflow/internal/model"
)

// SetupRouter wires the gateway routes. Auth routes are open; everything
// else sits behind the session gate, split into customer and courier groups.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.gate.RequireSession)

			r.Post("/auth/logout", h.Logout)

			r.Group(func(r chi.Router) {
				r.Use(h.gate.RequireRole(model.RoleCustomer))

				r.Get("/products", h.Products)

				r.Get("/cart", h.GetCart)
				r.Delete("/cart", h.ClearCart)
				r.Post("/cart/items", h.AddCartItem)
				r.Put("/cart/items/{id}", h.SetCartItemQuantity)
				r.Delete("/cart/items/{id}", h.RemoveCartItem)
				r.Post("/cart/items/{id}/increment", h.IncrementCartItem)
				r.Post("/cart/items/{id}/decrement", h.DecrementCartItem)

				r.Post("/checkout", h.Checkout)

				r.Get("/orders", h.ActiveOrders)
				r.Get("/orders/history", h.History)
				r.Get("/orders/{id}/timeline", h.OrderTimeline)
			})

			r.Route("/kurir", func(r chi.Router) {
				r.Use(h.gate.RequireRole(model.RoleKurir))

				r.Get("/orders", h.CourierOrders)
				r.Get("/orders/{id}", h.CourierOrderDetail)
				r.Put("/orders/{id}/status", h.CourierUpdateStatus)
				r.Post("/orders/{id}/proof", h.CourierUploadProof)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
