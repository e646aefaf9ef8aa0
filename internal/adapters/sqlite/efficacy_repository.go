package sqlite

import (
	"context"
	"database/sql"

	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// EfficacyRepository implements ports.EfficacyRepository. An empty string in
// task_type or behavior_type marks the unused target axis, so the UNIQUE
// constraint applies without NULL juggling.
type EfficacyRepository struct {
	db *sql.DB
}

func (r *EfficacyRepository) SaveComponentEfficacy(ctx context.Context, key models.EfficacyKey, value float64) error {
	var taskType, behaviorType string
	switch key.Target.Kind {
	case models.TargetTask:
		taskType = key.Target.Name
	case models.TargetBehavior:
		behaviorType = key.Target.Name
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO component_efficacy (component_type, task_type, behavior_type, efficacy_value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(component_type, task_type, behavior_type) DO UPDATE SET
			efficacy_value = excluded.efficacy_value,
			updated_at = CURRENT_TIMESTAMP`,
		key.Component.String(), taskType, behaviorType, value,
	)
	return err
}

func (r *EfficacyRepository) LoadEfficacy(ctx context.Context) (*ports.EfficacyData, error) {
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT component_type, task_type, behavior_type, efficacy_value
		FROM component_efficacy`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var componentType, taskType, behaviorType string
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
		case taskType != "":
			target = models.Target{Kind: models.TargetTask, Name: taskType}
		case behaviorType != "":
			target = models.Target{Kind: models.TargetBehavior, Name: behaviorType}
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT component_type, position, effect_value
		FROM position_effects`)
	if err != nil {
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

func (r *EfficacyRepository) loadAdjustments(ctx context.Context, into map[string]map[models.AdjustmentKey]float64, query string) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

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
