package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inferprompt/inferprompt/internal/ports"
)

// Store bundles the postgres-backed repositories behind ports.Store.
type Store struct {
	pool     *pgxpool.Pool
	efficacy *EfficacyRepository
	history  *HistoryRepository
}

// Connect opens a connection pool and verifies the database is reachable.
// All sessions run in UTC so stored timestamps stay comparable.
func Connect(ctx context.Context, url string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewStore(pool), nil
}

// NewStore wires repositories onto an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		efficacy: NewEfficacyRepository(pool),
		history:  NewHistoryRepository(pool),
	}
}

func (s *Store) Efficacy() ports.EfficacyRepository {
	return s.efficacy
}

func (s *Store) History() ports.HistoryRepository {
	return s.history
}

// EnsureSchema creates missing tables. Safe to call on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return ensureSchema(ctx, GetConn(ctx, s.pool))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
