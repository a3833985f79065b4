package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cartH *CartHandler, checkoutH *CheckoutHandler, paymentH *PaymentHandler, addressH *AddressHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.Clear)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{item_id}", cartH.UpdateQuantity)
			r.Delete("/items/{item_id}", cartH.RemoveItem)
			r.Post("/configuration", cartH.MergeConfigurations)
			r.Put("/customer", cartH.UpdateCustomer)
			r.Post("/customer/save", cartH.SaveCustomer)
			r.Delete("/customer/save", cartH.ForgetCustomer)
			r.Put("/billing", cartH.UpdateBilling)
			r.Post("/order", cartH.CreateOrder)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/step", checkoutH.CurrentStep)
			r.Post("/next", checkoutH.Next)
			r.Post("/back", checkoutH.Back)
			r.Post("/jump", checkoutH.Jump)
			r.Get("/validation", checkoutH.Validation)
		})
		r.Get("/address/suggestions", addressH.Suggestions)
		r.Route("/payment", func(r chi.Router) {
			r.Post("/intent", paymentH.CreateIntent)
			r.Post("/confirm", paymentH.Confirm)
			r.Post("/cancel", paymentH.Cancel)
			r.Post("/refund", paymentH.Refund)
			r.Get("/status", paymentH.Status)
		})
	})

	return r
}
