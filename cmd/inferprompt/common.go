package main

import (
	"context"
	"fmt"

	"github.com/inferprompt/inferprompt/internal/adapters/id"
	"github.com/inferprompt/inferprompt/internal/adapters/meta"
	"github.com/inferprompt/inferprompt/internal/adapters/postgres"
	"github.com/inferprompt/inferprompt/internal/adapters/sqlite"
	"github.com/inferprompt/inferprompt/internal/application/services"
	"github.com/inferprompt/inferprompt/internal/cache"
	"github.com/inferprompt/inferprompt/internal/config"
	"github.com/inferprompt/inferprompt/internal/efficacy"
	"github.com/inferprompt/inferprompt/internal/ports"
	"github.com/inferprompt/inferprompt/internal/solver"
)

// Version information (set via ldflags)
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Shared global variables
var cfg *config.Config

// openStore opens the configured storage backend and makes sure the schema
// exists. PostgreSQL wins when both backends are configured.
func openStore(ctx context.Context) (ports.Store, error) {
	var store ports.Store

	if cfg.UsesPostgres() {
		pgStore, err := postgres.Connect(ctx, cfg.Database.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		store = pgStore
	} else {
		sqliteStore, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
		}
		store = sqliteStore
	}

	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return store, nil
}

// pipeline bundles the wired application services for one CLI invocation.
type pipeline struct {
	optimizer *services.OptimizerService
	feedback  *services.FeedbackService
	efficacy  *efficacy.Store
}

// buildPipeline wires the optimization stack against a storage backend.
// store may be nil, which yields an in-memory pipeline without history.
func buildPipeline(ctx context.Context, store ports.Store) (*pipeline, error) {
	var efficacyRepo ports.EfficacyRepository
	var historyRepo ports.HistoryRepository
	if store != nil {
		efficacyRepo = store.Efficacy()
		historyRepo = store.History()
	}

	efficacyStore := efficacy.NewStore(efficacyRepo)
	if cfg.Optimizer.SeedsPath != "" {
		if err := efficacyStore.ApplySeedFile(cfg.Optimizer.SeedsPath); err != nil {
			return nil, fmt.Errorf("failed to apply seed file %s: %w", cfg.Optimizer.SeedsPath, err)
		}
	}
	efficacyStore.Load(ctx)

	structureSolver, err := solver.New(efficacyStore)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize solver: %w", err)
	}

	results := cache.New(cfg.Optimizer.CacheCapacity)

	return &pipeline{
		optimizer: services.NewOptimizerService(
			meta.NewAnalyzer(),
			structureSolver,
			meta.NewGenerator(),
			historyRepo,
			id.New(),
			results,
		),
		feedback: services.NewFeedbackService(efficacyStore, results),
		efficacy: efficacyStore,
	}, nil
}

// maskSecret masks a secret string for display
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "(set)"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// truncate shortens a string for table display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
