// Package efficacy holds the learned efficacy model: how well each prompt
// component serves each reasoning task or output behavior, positional biases,
// and per-model/per-domain adjustments. The store is the single shared
// mutable state of the optimizer; solvers read isolated snapshots and the
// feedback path is the only writer.
package efficacy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// Store is safe for concurrent use. A single coarse RWMutex serializes
// writes; reads copy under the read lock.
type Store struct {
	mu                sync.RWMutex
	componentEfficacy map[models.EfficacyKey]float64
	positionEffects   map[models.PositionKey]float64
	weights           models.Weights
	modelAdjustments  map[string]map[models.AdjustmentKey]float64
	domainAdjustments map[string]map[models.AdjustmentKey]float64
	generation        uint64

	repo ports.EfficacyRepository
}

// NewStore creates a store populated with the built-in seed values. repo may
// be nil for a purely in-memory store (tests, one-shot CLI runs).
func NewStore(repo ports.EfficacyRepository) *Store {
	return &Store{
		componentEfficacy: seedComponentEfficacy(),
		positionEffects:   seedPositionEffects(),
		weights:           seedWeights(),
		modelAdjustments:  seedModelAdjustments(),
		domainAdjustments: seedDomainAdjustments(),
		repo:              repo,
	}
}

// Snapshot returns a deep copy of the current state. Callers may hold it for
// the duration of a solve without blocking writers.
func (s *Store) Snapshot() models.EfficacySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.EfficacySnapshot{
		ComponentEfficacy: make(map[models.EfficacyKey]float64, len(s.componentEfficacy)),
		PositionEffects:   make(map[models.PositionKey]float64, len(s.positionEffects)),
		Weights: models.Weights{
			Position:  s.weights.Position,
			Tasks:     make(map[models.TaskType]float64, len(s.weights.Tasks)),
			Behaviors: make(map[models.BehaviorType]float64, len(s.weights.Behaviors)),
		},
		ModelAdjustments:  copyAdjustments(s.modelAdjustments),
		DomainAdjustments: copyAdjustments(s.domainAdjustments),
		Generation:        s.generation,
	}
	for k, v := range s.componentEfficacy {
		snap.ComponentEfficacy[k] = v
	}
	for k, v := range s.positionEffects {
		snap.PositionEffects[k] = v
	}
	for k, v := range s.weights.Tasks {
		snap.Weights.Tasks[k] = v
	}
	for k, v := range s.weights.Behaviors {
		snap.Weights.Behaviors[k] = v
	}
	return snap
}

// Generation returns the current write counter. It increases with every
// write that lands (Update, Load, ApplySeedFile); derived caches compare it
// to detect staleness.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Update upserts one (component, target) efficacy value. The in-memory write
// always takes effect for valid keys; a failed durable write is logged and
// does not fail the update.
func (s *Store) Update(ctx context.Context, component models.ComponentType, target models.Target, value float64) error {
	if !component.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownComponent, component)
	}
	if !target.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTarget, target)
	}

	key := models.EfficacyKey{Component: component, Target: target}

	s.mu.Lock()
	s.componentEfficacy[key] = value
	s.generation++
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveComponentEfficacy(ctx, key, value); err != nil {
			slog.Warn("efficacy persistence failed",
				"component", component,
				"target", target.String(),
				"error", err)
		}
	}
	return nil
}

// Load overlays durable values over the seeds. Any failure is logged and
// swallowed: the store must never prevent startup.
func (s *Store) Load(ctx context.Context) {
	if s.repo == nil {
		return
	}

	data, err := s.repo.LoadEfficacy(ctx)
	if err != nil {
		slog.Warn("could not load efficacy values from storage", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range data.ComponentEfficacy {
		s.componentEfficacy[k] = v
	}
	for k, v := range data.PositionEffects {
		s.positionEffects[k] = v
	}
	for name, adj := range data.ModelAdjustments {
		if s.modelAdjustments[name] == nil {
			s.modelAdjustments[name] = make(map[models.AdjustmentKey]float64, len(adj))
		}
		for k, v := range adj {
			s.modelAdjustments[name][k] = v
		}
	}
	for name, adj := range data.DomainAdjustments {
		if s.domainAdjustments[name] == nil {
			s.domainAdjustments[name] = make(map[models.AdjustmentKey]float64, len(adj))
		}
		for k, v := range adj {
			s.domainAdjustments[name][k] = v
		}
	}
	if len(data.ComponentEfficacy)+len(data.PositionEffects)+
		len(data.ModelAdjustments)+len(data.DomainAdjustments) > 0 {
		s.generation++
	}

	slog.Info("efficacy values loaded",
		"component_efficacy", len(data.ComponentEfficacy),
		"position_effects", len(data.PositionEffects),
		"model_adjustments", len(data.ModelAdjustments),
		"domain_adjustments", len(data.DomainAdjustments))
}

func copyAdjustments(src map[string]map[models.AdjustmentKey]float64) map[string]map[models.AdjustmentKey]float64 {
	dst := make(map[string]map[models.AdjustmentKey]float64, len(src))
	for name, adj := range src {
		inner := make(map[models.AdjustmentKey]float64, len(adj))
		for k, v := range adj {
			inner[k] = v
		}
		dst[name] = inner
	}
	return dst
}
