package efficacy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inferprompt/inferprompt/internal/domain/models"
)

type seedFile struct {
	ComponentEfficacy []seedEfficacyEntry `yaml:"component_efficacy"`
	PositionEffects   []seedPositionEntry `yaml:"position_effects"`
}

type seedEfficacyEntry struct {
	Component string  `yaml:"component"`
	Task      string  `yaml:"task"`
	Behavior  string  `yaml:"behavior"`
	Value     float64 `yaml:"value"`
}

type seedPositionEntry struct {
	Component string  `yaml:"component"`
	Position  int     `yaml:"position"`
	Value     float64 `yaml:"value"`
}

// ApplySeedFile overlays values from a YAML file on top of the built-in
// seeds. Entries must name exactly one of task or behavior; unknown enum
// names are rejected. Called before Load so durable values still win.
func (s *Store) ApplySeedFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}

	efficacy := make(map[models.EfficacyKey]float64, len(f.ComponentEfficacy))
	for i, entry := range f.ComponentEfficacy {
		component, err := models.ParseComponentType(entry.Component)
		if err != nil {
			return fmt.Errorf("seed file %s, component_efficacy[%d]: %w", path, i, err)
		}

		var target models.Target
		switch {
		case entry.Task != "" && entry.Behavior != "":
			return fmt.Errorf("seed file %s, component_efficacy[%d]: task and behavior are mutually exclusive", path, i)
		case entry.Task != "":
			task, err := models.ParseTaskType(entry.Task)
			if err != nil {
				return fmt.Errorf("seed file %s, component_efficacy[%d]: %w", path, i, err)
			}
			target = models.TaskTarget(task)
		case entry.Behavior != "":
			behavior, err := models.ParseBehaviorType(entry.Behavior)
			if err != nil {
				return fmt.Errorf("seed file %s, component_efficacy[%d]: %w", path, i, err)
			}
			target = models.BehaviorTarget(behavior)
		default:
			return fmt.Errorf("seed file %s, component_efficacy[%d]: task or behavior required", path, i)
		}

		efficacy[models.EfficacyKey{Component: component, Target: target}] = entry.Value
	}

	positions := make(map[models.PositionKey]float64, len(f.PositionEffects))
	for i, entry := range f.PositionEffects {
		component, err := models.ParseComponentType(entry.Component)
		if err != nil {
			return fmt.Errorf("seed file %s, position_effects[%d]: %w", path, i, err)
		}
		if entry.Position < 1 || entry.Position > len(models.AllComponentTypes) {
			return fmt.Errorf("seed file %s, position_effects[%d]: position %d out of range 1..%d", path, i, entry.Position, len(models.AllComponentTypes))
		}
		positions[models.PositionKey{Component: component, Position: entry.Position}] = entry.Value
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range efficacy {
		s.componentEfficacy[k] = v
	}
	for k, v := range positions {
		s.positionEffects[k] = v
	}
	if len(efficacy)+len(positions) > 0 {
		s.generation++
	}
	return nil
}
