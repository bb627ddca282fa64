package router

import (
	"net/http"

	"github.com/dapur-pos/checkout/internal/config"
	"github.com/dapur-pos/checkout/internal/handler"
	"github.com/dapur-pos/checkout/internal/service"
	"github.com/dapur-pos/checkout/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New creates a Chi router with all checkout routes wired up.
func New(cfg *config.Config, sessions *service.SessionService, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the cashier screen and customer display
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// WebSocket route: one room per checkout session
	r.Get("/ws/checkouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	// Checkout sessions
	checkoutHandler := handler.NewCheckoutHandler(sessions)
	r.Route("/checkouts", checkoutHandler.RegisterRoutes)

	return r
}
