package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestStore opens a fresh database under t.TempDir with the schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "inferprompt_test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(store.Close)

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	return store
}

func TestEnsureSchema_CreatesTables(t *testing.T) {
	store := newTestStore(t)

	for _, table := range []string{
		"component_efficacy", "position_effects", "model_efficacy",
		"domain_efficacy", "optimized_prompts",
	} {
		var count int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query tables: %v", err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
}

func TestPing(t *testing.T) {
	store := newTestStore(t)

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}
