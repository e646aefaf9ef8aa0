package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/inferprompt/inferprompt/internal/ports"
)

// Store is the single-file ports.Store backend for local use. Components are
// stored as a msgpack blob on the prompt row instead of a second table.
type Store struct {
	db       *sql.DB
	efficacy *EfficacyRepository
	history  *HistoryRepository
}

// Open opens (or creates) the database file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	return &Store{
		db:       db,
		efficacy: &EfficacyRepository{db: db},
		history:  &HistoryRepository{db: db},
	}, nil
}

func (s *Store) Efficacy() ports.EfficacyRepository {
	return s.efficacy
}

func (s *Store) History() ports.HistoryRepository {
	return s.history
}

// EnsureSchema creates missing tables. Safe to call on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS component_efficacy (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			component_type TEXT NOT NULL,
			task_type TEXT NOT NULL DEFAULT '',
			behavior_type TEXT NOT NULL DEFAULT '',
			efficacy_value REAL NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(component_type, task_type, behavior_type)
		);
		CREATE TABLE IF NOT EXISTS position_effects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			component_type TEXT NOT NULL,
			position INTEGER NOT NULL,
			effect_value REAL NOT NULL,
			UNIQUE(component_type, position)
		);
		CREATE TABLE IF NOT EXISTS model_efficacy (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model_name TEXT NOT NULL,
			component_type TEXT NOT NULL,
			behavior_type TEXT NOT NULL,
			efficacy_value REAL NOT NULL,
			UNIQUE(model_name, component_type, behavior_type)
		);
		CREATE TABLE IF NOT EXISTS domain_efficacy (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			domain TEXT NOT NULL,
			component_type TEXT NOT NULL,
			behavior_type TEXT NOT NULL,
			efficacy_value REAL NOT NULL,
			UNIQUE(domain, component_type, behavior_type)
		);
		CREATE TABLE IF NOT EXISTS optimized_prompts (
			id TEXT PRIMARY KEY,
			user_prompt TEXT NOT NULL,
			optimized_prompt TEXT NOT NULL,
			target_model TEXT NOT NULL,
			effectiveness_score REAL NOT NULL,
			rationale TEXT NOT NULL,
			components BLOB,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_prompts_created ON optimized_prompts(created_at);
		CREATE INDEX IF NOT EXISTS idx_prompts_model ON optimized_prompts(target_model);
	`)
	if err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	_ = s.db.Close()
}
