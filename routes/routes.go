package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lumosdigital/backoffice/app"
	"github.com/lumosdigital/backoffice/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handlers.LoginHandler(deps))
			r.Post("/logout", handlers.LogoutHandler(deps))
			r.Post("/signup", handlers.SignupHandler(deps))
			r.Post("/forgot-password", handlers.ForgotPasswordHandler(deps))
			r.Post("/reset-password", handlers.ResetPasswordHandler(deps))

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuth)
				r.Get("/session", handlers.SessionHandler(deps))
			})
		})

		// Public contact form
		r.Post("/contact", handlers.ContactHandler(deps))

		// Product catalog management
		r.Route("/products", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/", handlers.ListProductsHandler(deps))
			r.Post("/", handlers.CreateProductHandler(deps))
			r.Post("/batch-delete", handlers.BatchDeleteProductsHandler(deps))
			r.Get("/{id}", handlers.GetProductHandler(deps))
			r.Put("/{id}", handlers.UpdateProductHandler(deps))
			r.Delete("/{id}", handlers.DeleteProductHandler(deps))
		})

		// Inbound message management
		r.Route("/messages", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/", handlers.ListMessagesHandler(deps))
			r.Post("/batch-delete", handlers.BatchDeleteMessagesHandler(deps))
			r.Get("/conversations/{id}", handlers.GetConversationHandler(deps))
			r.Delete("/{id}", handlers.DeleteMessageHandler(deps))
		})

		// User management (require admin role)
		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireRole("admin"))
			r.Get("/", handlers.ListUsersHandler(deps))
			r.Get("/{email}", handlers.GetUserHandler(deps))
			r.Put("/{email}", handlers.UpdateUserHandler(deps))
			r.Put("/{email}/password", handlers.ChangePasswordHandler(deps))
			r.Delete("/{email}", handlers.DeleteUserHandler(deps))
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
