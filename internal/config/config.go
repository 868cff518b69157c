// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	// Optional rotating log file written in addition to stdout.
	LogFile           string `env:"LOG_FILE"`
	LogFileMaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"100"`
	LogFileMaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"3"`
	LogFileMaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"28"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://*,http://*"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	AutoMigrate   bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	Database Database `envPrefix:"BLUEPRINT_DB_"`
}

// Database holds the PostgreSQL connection and pool settings.
type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	Database string `env:"DATABASE"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	Schema   string `env:"SCHEMA" envDefault:"public"`

	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`

	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"1s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"warn"`

	// Health reports the pool as degraded past these limits.
	HealthTimeout      time.Duration `env:"HEALTH_TIMEOUT" envDefault:"1s"`
	HealthBusyPercent  int           `env:"HEALTH_BUSY_PERCENT" envDefault:"80"`
	HealthMaxWaitCount int64         `env:"HEALTH_MAX_WAIT_COUNT" envDefault:"1000"`
}

// DSN returns the key/value connection string understood by the pgx driver.
func (d Database) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.Username, d.Password, d.Database, d.Port)
	if d.Schema != "" {
		dsn += " search_path=" + d.Schema
	}
	return dsn
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate checks settings that env tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.Database.Database == "" {
			return fmt.Errorf("BLUEPRINT_DB_DATABASE is required when STORAGE_DRIVER=%s", DriverPostgres)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want %q or %q)", c.StorageDriver, DriverPostgres, DriverMemory)
	}

	// bcrypt accepts costs 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %d", c.Port)
	}

	return nil
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
