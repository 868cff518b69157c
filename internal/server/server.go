package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

// HealthChecker reports the state of the storage backend.
type HealthChecker interface {
	Health() map[string]string
}

type Server struct {
	cfg         *config.Config
	userService service.UserService
	todoService service.TodoService
	health      HealthChecker
	logger      *slog.Logger
}

// NewServer builds the HTTP server with all routes and middleware attached.
func NewServer(
	cfg *config.Config,
	userService service.UserService,
	todoService service.TodoService,
	health HealthChecker,
	logger *slog.Logger,
) *http.Server {
	appServer := &Server{
		cfg:         cfg,
		userService: userService,
		todoService: todoService,
		health:      health,
		logger:      logger,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
