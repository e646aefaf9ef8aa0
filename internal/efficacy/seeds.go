package efficacy

import "github.com/inferprompt/inferprompt/internal/domain/models"

// Seed tables: plausible starting values for a handful of pairs, refined over
// time through feedback. Unlisted pairs contribute nothing to a solve.

func seedComponentEfficacy() map[models.EfficacyKey]float64 {
	return map[models.EfficacyKey]float64{
		{Component: models.ComponentInstruction, Target: models.TaskTarget(models.TaskDeduction)}:            0.8,
		{Component: models.ComponentExample, Target: models.TaskTarget(models.TaskDeduction)}:                0.9,
		{Component: models.ComponentConstraint, Target: models.BehaviorTarget(models.BehaviorPrecision)}:     0.7,
		{Component: models.ComponentOutputFormat, Target: models.BehaviorTarget(models.BehaviorStepByStep)}:  0.8,
		{Component: models.ComponentInstruction, Target: models.BehaviorTarget(models.BehaviorPrecision)}:    0.7,
		{Component: models.ComponentContext, Target: models.TaskTarget(models.TaskAbduction)}:                0.75,
		{Component: models.ComponentExample, Target: models.BehaviorTarget(models.BehaviorStepByStep)}:       0.85,
	}
}

func seedPositionEffects() map[models.PositionKey]float64 {
	return map[models.PositionKey]float64{
		{Component: models.ComponentInstruction, Position: 1}: 0.9,
		{Component: models.ComponentContext, Position: 2}:     0.7,
		{Component: models.ComponentExample, Position: 3}:     0.8,
	}
}

func seedWeights() models.Weights {
	tasks := make(map[models.TaskType]float64, len(models.AllTaskTypes))
	for _, t := range models.AllTaskTypes {
		tasks[t] = 1.0
	}
	behaviors := make(map[models.BehaviorType]float64, len(models.AllBehaviorTypes))
	for _, b := range models.AllBehaviorTypes {
		behaviors[b] = 1.0
	}
	return models.Weights{
		Position:  0.5,
		Tasks:     tasks,
		Behaviors: behaviors,
	}
}

func seedModelAdjustments() map[string]map[models.AdjustmentKey]float64 {
	return map[string]map[models.AdjustmentKey]float64{
		"gpt-4": {
			{Component: models.ComponentInstruction, Behavior: models.BehaviorPrecision}: 0.9,
		},
		"claude": {
			{Component: models.ComponentExample, Behavior: models.BehaviorPrecision}: 0.85,
		},
		"llama": {
			{Component: models.ComponentConstraint, Behavior: models.BehaviorPrecision}: 0.75,
		},
	}
}

func seedDomainAdjustments() map[string]map[models.AdjustmentKey]float64 {
	return map[string]map[models.AdjustmentKey]float64{
		"legal": {
			{Component: models.ComponentContext, Behavior: models.BehaviorPrecision}: 0.95,
		},
		"medical": {
			{Component: models.ComponentConstraint, Behavior: models.BehaviorStepByStep}: 0.9,
		},
		"code": {
			{Component: models.ComponentExample, Behavior: models.BehaviorPrecision}: 0.85,
		},
	}
}
