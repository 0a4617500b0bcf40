// Package http is the gateway's JSON surface over the storefront client.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/session"
)

type RouterConfig struct {
	Registry       *session.Registry
	Notifier       CheckoutNotifier
	RequestTimeout time.Duration
	SecureCookies  bool
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	cartHandler := NewCartHandler(cfg.RequestTimeout, cfg.Logger)
	sessionHandler := NewSessionHandler(cfg.RequestTimeout, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.RequestTimeout, cfg.Notifier, cfg.Logger)
	productHandler := NewProductHandler(cfg.RequestTimeout)
	chatHandler := NewChatHandler(cfg.RequestTimeout, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Registry, cfg.SecureCookies))

			r.Route("/session", func(r chi.Router) {
				r.Post("/login", sessionHandler.Login)
				r.Post("/logout", sessionHandler.Logout)
				r.Post("/register", sessionHandler.Register)
				r.Get("/me", sessionHandler.Me)
				r.Post("/password/forgot", sessionHandler.ForgotPassword)
				r.Put("/password/reset/{token}", sessionHandler.ResetPassword)
				r.Get("/verify-email/{token}", sessionHandler.VerifyEmail)
				r.Post("/verify-email/resend", sessionHandler.ResendVerification)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.Checkout)
			r.Get("/checkout/verify", checkoutHandler.Verify)

			r.Get("/products", productHandler.List)
			r.Get("/products/{product_id}", productHandler.Get)

			r.Post("/chat", chatHandler.Chat)

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Get("/sales", adminHandler.Sales)
				r.Get("/orders", adminHandler.Orders)
			})
		})
	})

	return r
}
