package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// Service exposes the GORM connection and pool lifecycle.
type Service interface {
	Health() map[string]string
	Close() error
	GetDB() *gorm.DB
	// AutoMigrate creates or updates the users and todos tables.
	AutoMigrate() error
}

type service struct {
	db     *gorm.DB
	name   string
	log    *slog.Logger
	limits poolLimits
}

// New opens a pooled GORM connection to PostgreSQL.
func New(cfg config.Database, log *slog.Logger) (Service, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         newGormLogger(cfg, log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &service{db: db, name: cfg.Database, log: log, limits: newPoolLimits(cfg)}, nil
}

// newGormLogger routes GORM's SQL logging through the application's slog
// handler.
func newGormLogger(cfg config.Database, log *slog.Logger) logger.Interface {
	return logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             cfg.SlowQueryThreshold,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

func (s *service) AutoMigrate() error {
	if err := s.db.AutoMigrate(&domain.User{}, &domain.Todo{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Health pings the database and reports pool statistics. A reachable but
// strained pool stays "up" with a "degraded: ..." message.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), s.limits.timeout)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		s.log.Error("health check: get sql.DB", "error", err)
		return map[string]string{"status": "down", "error": fmt.Sprintf("get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		s.log.Error("health check: db down", "error", err)
		return map[string]string{"status": "down", "error": fmt.Sprintf("db down: %v", err)}
	}

	dbStats := sqlDB.Stats()
	stats := map[string]string{
		"status":              "up",
		"message":             "healthy",
		"open_connections":    strconv.Itoa(dbStats.OpenConnections),
		"in_use":              strconv.Itoa(dbStats.InUse),
		"idle":                strconv.Itoa(dbStats.Idle),
		"wait_count":          strconv.FormatInt(dbStats.WaitCount, 10),
		"wait_duration":       dbStats.WaitDuration.String(),
		"max_lifetime_closed": strconv.FormatInt(dbStats.MaxLifetimeClosed, 10),
	}
	if warnings := poolWarnings(dbStats, s.limits); len(warnings) > 0 {
		stats["message"] = "degraded: " + strings.Join(warnings, "; ")
	}
	return stats
}

// poolLimits are the configured thresholds Health compares the pool against.
type poolLimits struct {
	timeout      time.Duration
	maxOpen      int
	busyPercent  int
	maxWaitCount int64
}

func newPoolLimits(cfg config.Database) poolLimits {
	lim := poolLimits{
		timeout:      cfg.HealthTimeout,
		maxOpen:      cfg.MaxOpenConns,
		busyPercent:  cfg.HealthBusyPercent,
		maxWaitCount: cfg.HealthMaxWaitCount,
	}
	if lim.timeout <= 0 {
		lim.timeout = time.Second
	}
	return lim
}

// poolWarnings lists pool conditions worth an operator's attention. Zero
// limits disable their check.
func poolWarnings(st sql.DBStats, lim poolLimits) []string {
	var warnings []string
	if lim.maxOpen > 0 && lim.busyPercent > 0 && st.InUse*100 >= lim.maxOpen*lim.busyPercent {
		warnings = append(warnings, fmt.Sprintf("%d of %d connections in use", st.InUse, lim.maxOpen))
	}
	if lim.maxWaitCount > 0 && st.WaitCount > lim.maxWaitCount {
		warnings = append(warnings, fmt.Sprintf("%d waits for a free connection", st.WaitCount))
	}
	if st.MaxLifetimeClosed > 0 && st.MaxLifetimeClosed > int64(st.OpenConnections)/2 {
		warnings = append(warnings, "connections are recycled faster than they are reused, consider raising CONN_MAX_LIFETIME")
	}
	return warnings
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB for closing: %w", err)
	}
	s.log.Info("closing connection pool", "database", s.name)
	return sqlDB.Close()
}
