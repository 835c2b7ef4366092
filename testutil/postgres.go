// Package testutil provides a Postgres container for integration tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/product-catalog/repository"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// PostgresFixture is a lazily started Postgres container.
// Create one in TestMain, pass it to the tests that need it and call Stop when the run ends.
type PostgresFixture struct {
	once      sync.Once
	container *postgres.PostgresContainer
	db        *gorm.DB
	dsn       string
	err       error
}

// NewPostgresFixture returns a fixture that has not started its container yet
func NewPostgresFixture() *PostgresFixture {
	return &PostgresFixture{}
}

// Start launches the container and migrates the schema on first use
func (f *PostgresFixture) Start(ctx context.Context) (*gorm.DB, error) {
	f.once.Do(func() {
		f.err = f.start(ctx)
	})
	return f.db, f.err
}

// DB returns the migrated database, skipping the test when no container runtime is available
func (f *PostgresFixture) DB(t testing.TB) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	db, err := f.Start(context.Background())
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	return db
}

// DSN returns the connection string of the running container
func (f *PostgresFixture) DSN() string {
	return f.dsn
}

// Truncate empties the given tables between tests
func (f *PostgresFixture) Truncate(t testing.TB, tables ...string) {
	t.Helper()
	db := f.DB(t)
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s", table)).Error; err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}

// Stop terminates the container if it was started
func (f *PostgresFixture) Stop(ctx context.Context) error {
	if f.db != nil {
		if sqlDB, err := f.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if f.container == nil {
		return nil
	}
	if err := f.container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate postgres container: %w", err)
	}
	return nil
}

func (f *PostgresFixture) start(ctx context.Context) (err error) {
	// testcontainers panics instead of failing when no docker host is configured
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start postgres container: %v", r)
		}
	}()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("could not start postgres container: %w", err)
	}
	f.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("could not get connection string: %w", err)
	}
	f.dsn = dsn

	db, err := repository.Open(dsn, repository.Options{MaxOpenConns: 5})
	if err != nil {
		return err
	}
	if err := repository.Migrate(db); err != nil {
		return err
	}
	f.db = db
	return nil
}
