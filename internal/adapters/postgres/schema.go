package postgres

import (
	"context"
	"fmt"
)

// schemaStatements creates the efficacy and history tables. Every statement
// is idempotent so EnsureSchema can run on each start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS component_efficacy (
		id SERIAL PRIMARY KEY,
		component_type TEXT NOT NULL,
		task_type TEXT,
		behavior_type TEXT,
		efficacy_value DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS component_efficacy_key_idx
		ON component_efficacy (component_type, COALESCE(task_type, ''), COALESCE(behavior_type, ''))`,
	`CREATE TABLE IF NOT EXISTS position_effects (
		id SERIAL PRIMARY KEY,
		component_type TEXT NOT NULL,
		position INTEGER NOT NULL,
		effect_value DOUBLE PRECISION NOT NULL,
		UNIQUE (component_type, position)
	)`,
	`CREATE TABLE IF NOT EXISTS model_efficacy (
		id SERIAL PRIMARY KEY,
		model_name TEXT NOT NULL,
		component_type TEXT NOT NULL,
		behavior_type TEXT NOT NULL,
		efficacy_value DOUBLE PRECISION NOT NULL,
		UNIQUE (model_name, component_type, behavior_type)
	)`,
	`CREATE TABLE IF NOT EXISTS domain_efficacy (
		id SERIAL PRIMARY KEY,
		domain TEXT NOT NULL,
		component_type TEXT NOT NULL,
		behavior_type TEXT NOT NULL,
		efficacy_value DOUBLE PRECISION NOT NULL,
		UNIQUE (domain, component_type, behavior_type)
	)`,
	`CREATE TABLE IF NOT EXISTS optimized_prompts (
		id TEXT PRIMARY KEY,
		user_prompt TEXT NOT NULL,
		optimized_prompt TEXT NOT NULL,
		target_model TEXT NOT NULL,
		effectiveness_score DOUBLE PRECISION NOT NULL,
		rationale TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS prompt_components (
		id SERIAL PRIMARY KEY,
		prompt_id TEXT NOT NULL REFERENCES optimized_prompts(id) ON DELETE CASCADE,
		component_type TEXT NOT NULL,
		content TEXT NOT NULL,
		position INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS prompt_components_prompt_idx
		ON prompt_components (prompt_id)`,
	`CREATE INDEX IF NOT EXISTS optimized_prompts_created_idx
		ON optimized_prompts (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS optimized_prompts_model_idx
		ON optimized_prompts (target_model)`,
}

func ensureSchema(ctx context.Context, conn querier) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
