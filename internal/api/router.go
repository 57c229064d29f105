/**
 * @description
 * This file sets up the HTTP router for the returns-service. Every business endpoint is
 * mounted under /api; role-gated groups use RequireRole on top of AuthMiddleware.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS handling for the browser dashboard.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/transfa/returns-service/internal/domain"
)

// RouterOptions carries the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

// Routes creates and returns the router for the returns service.
func Routes(h *Handlers, verifier TokenVerifier, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		r.Post("/auth/register", h.RegisterHandler)
		r.Post("/auth/login", h.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(verifier))

			r.Get("/return-requests", h.ListReturnRequestsHandler)
			r.Get("/refunds", h.ListRefundsHandler)
			r.Get("/notifications", h.ListNotificationsHandler)
			r.Put("/notifications/{notificationID}/read", h.MarkNotificationReadHandler)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleCustomer))

				r.Post("/orders", h.CreateOrderHandler)
				r.Get("/orders", h.ListOrdersHandler)
				r.Post("/return-requests", h.SubmitReturnRequestHandler)
				r.Get("/wallet", h.GetWalletHandler)
				r.Post("/wallet/topup", h.TopUpWalletHandler)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))

				r.Post("/return-requests/{returnRequestID}/approve", h.ApproveReturnRequestHandler)
				r.Post("/return-requests/{returnRequestID}/reject", h.RejectReturnRequestHandler)
				r.Get("/analytics/returns", h.ReturnAnalyticsHandler)
				r.Get("/analytics/customers", h.CustomerAnalyticsHandler)
			})
		})
	})

	return r
}
