//go:build integration

// Package testutil starts disposable infrastructure for integration tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-tracker/internal/config"
)

// StartPostgres runs a throwaway PostgreSQL container and returns settings
// pointing at it together with a teardown function.
func StartPostgres(ctx context.Context) (config.Database, func(context.Context) error, error) {
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return config.Database{}, nil, fmt.Errorf("start postgres container: %w", err)
	}
	teardown := func(ctx context.Context) error { return dbContainer.Terminate(ctx) }

	dbHost, err := dbContainer.Host(ctx)
	if err != nil {
		return config.Database{}, teardown, fmt.Errorf("container host: %w", err)
	}
	dbPort, err := dbContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return config.Database{}, teardown, fmt.Errorf("container port: %w", err)
	}

	return config.Database{
		Host:               dbHost,
		Port:               dbPort.Port(),
		Database:           dbName,
		Username:           dbUser,
		Password:           dbPwd,
		Schema:             "public",
		MaxIdleConns:       2,
		MaxOpenConns:       10,
		ConnMaxLifetime:    time.Hour,
		SlowQueryThreshold: time.Second,
		LogLevel:           "silent",
		HealthTimeout:      time.Second,
		HealthBusyPercent:  80,
		HealthMaxWaitCount: 1000,
	}, teardown, nil
}

// TruncateAll empties the users and todos tables and resets their sequences.
func TruncateAll(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE todos, users RESTART IDENTITY CASCADE").Error
}
