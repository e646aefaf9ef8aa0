package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// EfficacyRepository implements ports.EfficacyRepository
type EfficacyRepository struct {
	BaseRepository
}

// NewEfficacyRepository creates a new efficacy repository
func NewEfficacyRepository(pool *pgxpool.Pool) *EfficacyRepository {
	return &EfficacyRepository{
		BaseRepository: NewBaseRepository(pool),
	}
}

// SaveComponentEfficacy upserts one (component, target) efficacy value.
// Exactly one of task_type and behavior_type is set per row.
func (r *EfficacyRepository) SaveComponentEfficacy(ctx context.Context, key models.EfficacyKey, value float64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var taskType, behaviorType string
	switch key.Target.Kind {
	case models.TargetTask:
		taskType = key.Target.Name
	case models.TargetBehavior:
		behaviorType = key.Target.Name
	}

	query := `
		INSERT INTO component_efficacy (
			component_type, task_type, behavior_type, efficacy_value, updated_at
		) VALUES (
			$1, $2, $3, $4, NOW()
		)
		ON CONFLICT (component_type, COALESCE(task_type, ''), COALESCE(behavior_type, ''))
		DO UPDATE SET
			efficacy_value = EXCLUDED.efficacy_value,
			updated_at = NOW()`

	_, err := r.conn(ctx).Exec(ctx, query,
		key.Component.String(),
		nullString(taskType),
		nullString(behaviorType),
		value,
	)

	return err
}

// LoadEfficacy reads everything persisted so far. Rows that no longer parse
// against the closed enums are skipped rather than failing the load.
func (r *EfficacyRepository) LoadEfficacy(ctx context.Context) (*ports.EfficacyData, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	data := &ports.EfficacyData{
		ComponentEfficacy: make(map[models.EfficacyKey]float64),
		PositionEffects:   make(map[models.PositionKey]float64),
		ModelAdjustments:  make(map[string]map[models.AdjustmentKey]float64),
		DomainAdjustments: make(map[string]map[models.AdjustmentKey]float64),
	}

	if err := r.loadComponentEfficacy(ctx, data); err != nil {
		return nil, err
	}
	if err := r.loadPositionEffects(ctx, data); err != nil {
		return nil, err
	}
	if err := r.loadAdjustments(ctx, data.ModelAdjustments,
		`SELECT model_name, component_type, behavior_type, efficacy_value FROM model_efficacy`); err != nil {
		return nil, err
	}
	if err := r.loadAdjustments(ctx, data.DomainAdjustments,
		`SELECT domain, component_type, behavior_type, efficacy_value FROM domain_efficacy`); err != nil {
		return nil, err
	}

	return data, nil
}

func (r *EfficacyRepository) loadComponentEfficacy(ctx context.Context, data *ports.EfficacyData) error {
	query := `
		SELECT component_type, task_type, behavior_type, efficacy_value
		FROM component_efficacy`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var componentType string
		var taskType, behaviorType sql.NullString
		var value float64

		if err := rows.Scan(&componentType, &taskType, &behaviorType, &value); err != nil {
			return err
		}

		component, err := models.ParseComponentType(componentType)
		if err != nil {
			continue
		}

		var target models.Target
		switch {
		case taskType.Valid:
			target = models.Target{Kind: models.TargetTask, Name: getString(taskType)}
		case behaviorType.Valid:
			target = models.Target{Kind: models.TargetBehavior, Name: getString(behaviorType)}
		default:
			continue
		}
		if !target.Valid() {
			continue
		}

		data.ComponentEfficacy[models.EfficacyKey{Component: component, Target: target}] = value
	}

	return rows.Err()
}

func (r *EfficacyRepository) loadPositionEffects(ctx context.Context, data *ports.EfficacyData) error {
	query := `
		SELECT component_type, position, effect_value
		FROM position_effects`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var componentType string
		var position int
		var value float64

		if err := rows.Scan(&componentType, &position, &value); err != nil {
			return err
		}

		component, err := models.ParseComponentType(componentType)
		if err != nil {
			continue
		}

		data.PositionEffects[models.PositionKey{Component: component, Position: position}] = value
	}

	return rows.Err()
}

// loadAdjustments fills one name-keyed adjustment map; model_efficacy and
// domain_efficacy share a column shape.
func (r *EfficacyRepository) loadAdjustments(ctx context.Context, into map[string]map[models.AdjustmentKey]float64, query string) error {
	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		return err
	}
	defer rows.Close()

	return scanAdjustments(rows, into)
}

func scanAdjustments(rows pgx.Rows, into map[string]map[models.AdjustmentKey]float64) error {
	for rows.Next() {
		var name, componentType, behaviorType string
		var value float64

		if err := rows.Scan(&name, &componentType, &behaviorType, &value); err != nil {
			return err
		}

		component, err := models.ParseComponentType(componentType)
		if err != nil {
			continue
		}
		behavior, err := models.ParseBehaviorType(behaviorType)
		if err != nil {
			continue
		}

		m := into[name]
		if m == nil {
			m = make(map[models.AdjustmentKey]float64)
			into[name] = m
		}
		m[models.AdjustmentKey{Component: component, Behavior: behavior}] = value
	}

	return rows.Err()
}
