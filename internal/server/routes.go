package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tomlord1122/todo-tracker/internal/metrics"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", requestIDHeader},
		ExposedHeaders:   []string{"Link", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", s.getAllUsersHandler)
		r.Post("/register", s.registerUserHandler)
		r.Post("/login", s.loginUserHandler)

		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", s.getUserByIDHandler)
			r.Put("/", s.updateUserHandler)
			r.Delete("/", s.deleteUserHandler)
			r.Post("/change-password", s.changePasswordHandler)

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", s.getTodosHandler)
				r.Post("/", s.createTodoHandler)
				r.Put("/{todoID}", s.updateTodoHandler)
				r.Delete("/{todoID}", s.deleteTodoHandler)
			})
		})
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.health.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}
