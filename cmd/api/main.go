package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/todo-tracker/internal/auth"
	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/logging"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
	"github.com/Tomlord1122/todo-tracker/internal/server"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

// storage bundles the chosen backend with its health check and shutdown hook.
type storage struct {
	store  repository.Store
	health server.HealthChecker
	closer io.Closer
}

func openStorage(cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		if !cfg.IsDevelopment() {
			logger.Warn("using in-memory storage outside development, data is lost on restart", "env", cfg.AppEnv)
		}
		store := repository.NewMemoryStore()
		return &storage{store: store, health: store}, nil

	case config.DriverPostgres:
		dbService, err := database.New(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			logger.Info("running database auto-migration")
			if err := dbService.AutoMigrate(); err != nil {
				_ = dbService.Close()
				return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
			}
		}
		return &storage{
			store:  repository.NewGormStore(dbService.GetDB()),
			health: dbService,
			closer: dbService,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func gracefulShutdown(apiServer *http.Server, st *storage, cfg *config.Config, logger *slog.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	ctxTimeout, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if st.closer != nil {
		if err := st.closer.Close(); err != nil {
			logger.Error("error closing storage", "error", err)
		}
	}

	logger.Info("server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, logCloser := logging.New(cfg)
	defer logCloser.Close()

	st, err := openStorage(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	userService := service.NewUserService(st.store, hasher, logger)
	todoService := service.NewTodoService(st.store, logger)

	apiServer := server.NewServer(cfg, userService, todoService, st.health, logger)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, st, cfg, logger, done)

	logger.Info("starting server", "addr", apiServer.Addr, "env", cfg.AppEnv, "storage", cfg.StorageDriver)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("graceful shutdown complete")
}
