package solver

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/efficacy"
)

func newSeededSolver(t *testing.T) (*Solver, *efficacy.Store) {
	t.Helper()
	store := efficacy.NewStore(nil)
	s, err := New(store)
	require.NoError(t, err)
	return s, store
}

func strPtr(s string) *string { return &s }

func TestSolveSeededScenario(t *testing.T) {
	s, _ := newSeededSolver(t)

	components, score := s.Solve(context.Background(),
		[]models.TaskType{models.TaskDeduction},
		[]models.BehaviorType{models.BehaviorStepByStep, models.BehaviorConciseness},
		"gpt-4", strPtr("education"))

	// Task gains 800+900, behavior gains 800+850, position effects
	// (450+350+400) at half weight. The gpt-4 adjustment is keyed on
	// precision, which was not requested, and "education" is an unknown
	// domain, so neither contributes.
	assert.InDelta(t, 4.55, score, 1e-9)

	want := []models.PromptComponent{
		{Type: models.ComponentInstruction, Content: "[INSTRUCTION CONTENT]", Position: 1},
		{Type: models.ComponentContext, Content: "[CONTEXT CONTENT]", Position: 2},
		{Type: models.ComponentExample, Content: "[EXAMPLE CONTENT]", Position: 3},
		{Type: models.ComponentConstraint, Content: "[CONSTRAINT CONTENT]", Position: 4},
		{Type: models.ComponentOutputFormat, Content: "[OUTPUT_FORMAT CONTENT]", Position: 5},
	}
	if diff := cmp.Diff(want, components); diff != "" {
		t.Errorf("structure mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveModelAdjustmentGating(t *testing.T) {
	s, _ := newSeededSolver(t)
	ctx := context.Background()
	behaviors := []models.BehaviorType{models.BehaviorPrecision}

	_, known := s.Solve(ctx, nil, behaviors, "gpt-4", nil)
	_, unknown := s.Solve(ctx, nil, behaviors, "some-new-model", nil)

	// gpt-4 carries an (instruction, precision) adjustment of 0.9 that only
	// applies because precision was requested.
	assert.InDelta(t, 3.5, known, 1e-9)
	assert.InDelta(t, 2.6, unknown, 1e-9)

	// The same adjustment must not fire when precision is absent.
	_, gated := s.Solve(ctx, nil, []models.BehaviorType{models.BehaviorCreativity}, "gpt-4", nil)
	assert.InDelta(t, 1.2, gated, 1e-9)
}

func TestSolveDomainAdjustment(t *testing.T) {
	s, _ := newSeededSolver(t)
	ctx := context.Background()
	behaviors := []models.BehaviorType{models.BehaviorPrecision}

	_, legal := s.Solve(ctx, nil, behaviors, "", strPtr("legal"))
	_, none := s.Solve(ctx, nil, behaviors, "", nil)

	assert.InDelta(t, 3.55, legal, 1e-9)
	assert.InDelta(t, 2.6, none, 1e-9)
}

func TestSolveEmptyTargets(t *testing.T) {
	s, _ := newSeededSolver(t)

	components, score := s.Solve(context.Background(), nil, nil, "", nil)

	// Only position effects remain.
	assert.InDelta(t, 1.2, score, 1e-9)
	require.Len(t, components, 5)
	for i, c := range components {
		assert.Equal(t, i+1, c.Position)
	}
	assert.Equal(t, models.ComponentInstruction, components[0].Type)
	assert.Equal(t, models.ComponentContext, components[1].Type)
	assert.Equal(t, models.ComponentExample, components[2].Type)
	// Constraint/output_format carry no position effects; the tie resolves
	// to the lexicographically smallest position vector.
	assert.Equal(t, models.ComponentConstraint, components[3].Type)
	assert.Equal(t, models.ComponentOutputFormat, components[4].Type)
}

func TestSolveDeterministic(t *testing.T) {
	s, _ := newSeededSolver(t)
	ctx := context.Background()

	first, firstScore := s.Solve(ctx, []models.TaskType{models.TaskDeduction}, nil, "claude", nil)
	second, secondScore := s.Solve(ctx, []models.TaskType{models.TaskDeduction}, nil, "claude", nil)

	assert.Equal(t, firstScore, secondScore)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated solve diverged (-first +second):\n%s", diff)
	}
}

func TestSolveReflectsEfficacyUpdates(t *testing.T) {
	s, store := newSeededSolver(t)
	ctx := context.Background()
	behaviors := []models.BehaviorType{models.BehaviorPrecision}

	_, before := s.Solve(ctx, nil, behaviors, "", nil)
	assert.InDelta(t, 2.6, before, 1e-9)

	err := store.Update(ctx, models.ComponentConstraint, models.BehaviorTarget(models.BehaviorPrecision), 0.9)
	require.NoError(t, err)

	// Same request tuple: a stale gains cache would still answer 2.6.
	_, after := s.Solve(ctx, nil, behaviors, "", nil)
	assert.InDelta(t, 2.8, after, 1e-9)
}

func TestSolveCanceledContextFallsBack(t *testing.T) {
	s, _ := newSeededSolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	components, score := s.Solve(ctx, []models.TaskType{models.TaskDeduction}, nil, "gpt-4", nil)

	wantComponents, wantScore := FallbackStructure()
	assert.Equal(t, wantScore, score)
	if diff := cmp.Diff(wantComponents, components); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestFallbackStructure(t *testing.T) {
	components, score := FallbackStructure()

	assert.Equal(t, 100.0, score)
	require.Len(t, components, 5)
	for i, c := range components {
		assert.Equal(t, models.AllComponentTypes[i], c.Type)
		assert.Equal(t, i+1, c.Position)
		assert.NotEmpty(t, c.Content)
	}
}

func TestTupleKey(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []models.TaskType
		behaviors []models.BehaviorType
		model     string
		domain    *string
		want      string
	}{
		{
			name: "empty",
			want: "|||none",
		},
		{
			name:      "sorted and deduplicated",
			tasks:     []models.TaskType{models.TaskInduction, models.TaskDeduction, models.TaskInduction},
			behaviors: []models.BehaviorType{models.BehaviorStepByStep, models.BehaviorPrecision},
			model:     "gpt-4",
			domain:    strPtr("legal"),
			want:      "deduction,induction|precision,step_by_step|gpt-4|legal",
		},
		{
			name:   "nil domain reads none",
			model:  "claude",
			domain: nil,
			want:   "||claude|none",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tupleKey(tt.tasks, tt.behaviors, tt.model, tt.domain)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFactsGatesUnknownNames(t *testing.T) {
	s, store := newSeededSolver(t)
	snap := store.Snapshot()

	atoms, err := buildFacts(s.prog, snap, nil, []models.BehaviorType{models.BehaviorPrecision}, "unheard-of", strPtr("astrology"))
	require.NoError(t, err)

	// Two behavior efficacy seeds plus three position effects plus two
	// dependency facts; no model or domain terms.
	assert.Len(t, atoms, 7)
}
