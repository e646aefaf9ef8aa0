package solver

import (
	"fmt"
	"math"

	"github.com/google/mangle/ast"

	"github.com/inferprompt/inferprompt/internal/domain/models"
)

// millipoints scales a weighted efficacy value to the integer domain the
// Datalog rules sum over.
func millipoints(value, weight float64) int64 {
	return int64(math.Round(value * weight * 1000))
}

func componentName(c models.ComponentType) (ast.Constant, error) {
	n, err := ast.Name("/" + string(c))
	if err != nil {
		return ast.Constant{}, fmt.Errorf("component name %q: %w", c, err)
	}
	return n, nil
}

// buildFacts turns one efficacy snapshot plus the request targets into the
// extensional facts for a solve. Emission is deterministic: canonical
// component order within each source, sources in task, position, behavior,
// model, domain order. Model and domain adjustments contribute only for
// behaviors the request asked for; unknown model or domain names emit
// nothing.
func buildFacts(p *program, snap models.EfficacySnapshot, tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) ([]ast.Atom, error) {
	names := make(map[models.ComponentType]ast.Constant, len(models.AllComponentTypes))
	for _, c := range models.AllComponentTypes {
		n, err := componentName(c)
		if err != nil {
			return nil, err
		}
		names[c] = n
	}

	wantTask := make(map[models.TaskType]bool, len(tasks))
	for _, t := range tasks {
		wantTask[t] = true
	}
	wantBehavior := make(map[models.BehaviorType]bool, len(behaviors))
	for _, b := range behaviors {
		wantBehavior[b] = true
	}

	var atoms []ast.Atom
	gain := func(c models.ComponentType, source string, v int64) {
		atoms = append(atoms, ast.Atom{
			Predicate: p.gainTerm,
			Args:      []ast.BaseTerm{names[c], ast.String(source), ast.Number(v)},
		})
	}

	for _, t := range models.AllTaskTypes {
		if !wantTask[t] {
			continue
		}
		w := snap.Weights.TaskWeight(t)
		for _, c := range models.AllComponentTypes {
			if e, ok := snap.ComponentEfficacy[models.EfficacyKey{Component: c, Target: models.TaskTarget(t)}]; ok {
				gain(c, "task:"+string(t), millipoints(e, w))
			}
		}
	}

	for _, c := range models.AllComponentTypes {
		for pos := 1; pos <= len(models.AllComponentTypes); pos++ {
			if e, ok := snap.PositionEffects[models.PositionKey{Component: c, Position: pos}]; ok {
				atoms = append(atoms, ast.Atom{
					Predicate: p.positionTerm,
					Args:      []ast.BaseTerm{names[c], ast.Number(int64(pos)), ast.Number(millipoints(e, snap.Weights.Position))},
				})
			}
		}
	}

	for _, b := range models.AllBehaviorTypes {
		if !wantBehavior[b] {
			continue
		}
		w := snap.Weights.BehaviorWeight(b)
		for _, c := range models.AllComponentTypes {
			if e, ok := snap.ComponentEfficacy[models.EfficacyKey{Component: c, Target: models.BehaviorTarget(b)}]; ok {
				gain(c, "behavior:"+string(b), millipoints(e, w))
			}
		}
	}

	if adj, ok := snap.ModelAdjustments[model]; ok {
		for _, b := range models.AllBehaviorTypes {
			if !wantBehavior[b] {
				continue
			}
			w := snap.Weights.BehaviorWeight(b)
			for _, c := range models.AllComponentTypes {
				if e, ok := adj[models.AdjustmentKey{Component: c, Behavior: b}]; ok {
					gain(c, "model:"+model, millipoints(e, w))
				}
			}
		}
	}

	if domain != nil {
		if adj, ok := snap.DomainAdjustments[*domain]; ok {
			for _, b := range models.AllBehaviorTypes {
				if !wantBehavior[b] {
					continue
				}
				w := snap.Weights.BehaviorWeight(b)
				for _, c := range models.AllComponentTypes {
					if e, ok := adj[models.AdjustmentKey{Component: c, Behavior: b}]; ok {
						gain(c, "domain:"+*domain, millipoints(e, w))
					}
				}
			}
		}
	}

	deps := structureDependencies()
	for _, dependent := range models.AllComponentTypes {
		required, ok := deps[dependent]
		if !ok {
			continue
		}
		atoms = append(atoms, ast.Atom{
			Predicate: p.requires,
			Args:      []ast.BaseTerm{names[dependent], names[required]},
		})
	}

	return atoms, nil
}

// structureDependencies lists components that only make sense in the
// presence of another: examples and constraints presuppose an instruction.
func structureDependencies() map[models.ComponentType]models.ComponentType {
	return map[models.ComponentType]models.ComponentType{
		models.ComponentExample:    models.ComponentInstruction,
		models.ComponentConstraint: models.ComponentInstruction,
	}
}
