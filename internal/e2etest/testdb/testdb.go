//go:build e2e

// Package testdb starts a disposable Postgres for the end-to-end suite.
package testdb

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = time.Minute

type TestDBInstance struct {
	container *postgres.PostgresContainer
	DSN       string
}

func NewTestDBInstance() (*TestDBInstance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("cropmart"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(context.Background())
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &TestDBInstance{container: container, DSN: dsn}, nil
}

func (db *TestDBInstance) Down() {
	_ = db.container.Terminate(context.Background())
}
