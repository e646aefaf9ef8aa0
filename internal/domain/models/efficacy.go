package models

// EfficacyKey identifies a learned efficacy value: how well a component type
// serves a reasoning task or an output behavior.
type EfficacyKey struct {
	Component ComponentType `json:"component"`
	Target    Target        `json:"target"`
}

// PositionKey identifies a positional preference for a component type.
type PositionKey struct {
	Component ComponentType `json:"component"`
	Position  int           `json:"position"`
}

// AdjustmentKey identifies a model- or domain-conditional efficacy entry.
// Adjustments are keyed on behaviors only.
type AdjustmentKey struct {
	Component ComponentType `json:"component"`
	Behavior  BehaviorType  `json:"behavior"`
}

// Weights scales the contribution of each factor in the solver objective.
// Factors without an explicit entry weigh 1.0.
type Weights struct {
	Position  float64
	Tasks     map[TaskType]float64
	Behaviors map[BehaviorType]float64
}

func (w Weights) TaskWeight(t TaskType) float64 {
	if v, ok := w.Tasks[t]; ok {
		return v
	}
	return 1.0
}

func (w Weights) BehaviorWeight(b BehaviorType) float64 {
	if v, ok := w.Behaviors[b]; ok {
		return v
	}
	return 1.0
}

// EfficacySnapshot is an isolated copy of the efficacy state, safe to read
// without holding the store lock. Generation increases monotonically with
// every efficacy update; solvers key derived caches on it.
type EfficacySnapshot struct {
	ComponentEfficacy map[EfficacyKey]float64
	PositionEffects   map[PositionKey]float64
	Weights           Weights
	ModelAdjustments  map[string]map[AdjustmentKey]float64
	DomainAdjustments map[string]map[AdjustmentKey]float64
	Generation        uint64
}
