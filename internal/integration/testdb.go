//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/inferprompt/inferprompt/internal/adapters/postgres"
)

// TestDB manages a test database instance
type TestDB struct {
	Pool  *pgxpool.Pool
	Store *postgres.Store
	DSN   string
}

// SetupTestDB creates a clean test database with the schema applied
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "inferprompt")
	password := getEnv("POSTGRES_PASSWORD", "inferprompt")
	dbName := getEnv("POSTGRES_DB", "inferprompt_test")

	// Create database if it doesn't exist
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		user, password, host, port)

	db, err := sql.Open("pgx", adminDSN)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	// Drop and recreate database for clean state
	_, err = db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
	if err != nil {
		t.Fatalf("failed to drop test database: %v", err)
	}

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbName)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	store := postgres.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	testDB := &TestDB{
		Pool:  pool,
		Store: store,
		DSN:   dsn,
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return testDB
}

// Clear removes all data from tables while preserving schema
func (db *TestDB) Clear(ctx context.Context) error {
	tables := []string{
		"prompt_components",
		"optimized_prompts",
		"component_efficacy",
		"position_effects",
		"model_efficacy",
		"domain_efficacy",
	}

	for _, table := range tables {
		_, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	return nil
}

// WaitForReady waits for the database to be ready
func (db *TestDB) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		err := db.Pool.Ping(ctx)
		if err == nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("database not ready after %v", timeout)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
