package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/inferprompt/inferprompt/internal/cache"
	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/efficacy"
	"github.com/inferprompt/inferprompt/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func strPtr(s string) *string { return &s }

type fakeAnalyzer struct {
	analysis *models.PromptAnalysis
	err      error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (*models.PromptAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

type fakeSolver struct {
	mu            sync.Mutex
	components    []models.PromptComponent
	score         float64
	calls         int
	lastTasks     []models.TaskType
	lastBehaviors []models.BehaviorType
	lastModel     string
	lastDomain    *string
}

func (f *fakeSolver) Solve(ctx context.Context, tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) ([]models.PromptComponent, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastTasks = tasks
	f.lastBehaviors = behaviors
	f.lastModel = model
	f.lastDomain = domain
	return append([]models.PromptComponent(nil), f.components...), f.score
}

type fakeGenerator struct {
	contentErr   error
	rationaleErr error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, component models.ComponentType, analysis *models.PromptAnalysis, originalPrompt string) (string, error) {
	if f.contentErr != nil {
		return "", f.contentErr
	}
	return "content for " + string(component), nil
}

func (f *fakeGenerator) GenerateRationale(ctx context.Context, components []models.PromptComponent, analysis *models.PromptAnalysis, score float64) (string, error) {
	if f.rationaleErr != nil {
		return "", f.rationaleErr
	}
	return "chosen for the detected targets", nil
}

func (f *fakeGenerator) Assemble(components []models.PromptComponent) string {
	ordered := append([]models.PromptComponent(nil), components...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })
	parts := make([]string, 0, len(ordered))
	for _, c := range ordered {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, "\n\n")
}

type fakeHistory struct {
	mu    sync.Mutex
	err   error
	saved []*models.OptimizationRecord
}

func (f *fakeHistory) Save(ctx context.Context, record *models.OptimizationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeHistory) GetByID(ctx context.Context, id string) (*models.OptimizationRecord, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeHistory) List(ctx context.Context, filter ports.HistoryFilter) ([]*models.OptimizationRecord, int, error) {
	return nil, 0, nil
}

type fakeIDs struct{ id string }

func (f fakeIDs) GenerateOptimizationID() string { return f.id }

func solvedStructure() []models.PromptComponent {
	return []models.PromptComponent{
		{Type: models.ComponentInstruction, Content: "[INSTRUCTION CONTENT]", Position: 1},
		{Type: models.ComponentContext, Content: "[CONTEXT CONTENT]", Position: 2},
	}
}

func defaultAnalysis() *models.PromptAnalysis {
	return &models.PromptAnalysis{
		DetectedTasks:     []models.TaskType{models.TaskDeduction},
		DetectedBehaviors: []models.BehaviorType{models.BehaviorPrecision},
		DomainHint:        strPtr("code"),
		TokenEstimate:     7,
	}
}

func TestOptimizeSuccess(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: defaultAnalysis()}
	solver := &fakeSolver{components: solvedStructure(), score: 4.55}
	hist := &fakeHistory{}
	svc := NewOptimizerService(analyzer, solver, &fakeGenerator{}, hist, fakeIDs{"pr_abc123"}, cache.New(4))

	req := models.OptimizationRequest{
		UserPrompt:      "list the planets",
		TargetTasks:     []models.TaskType{models.TaskComparison},
		TargetBehaviors: []models.BehaviorType{models.BehaviorConciseness},
		TargetModel:     "claude",
		Domain:          strPtr("legal"),
	}
	result := svc.Optimize(context.Background(), req)

	require.NotNil(t, result)
	assert.Equal(t, 4.55, result.EffectivenessScore)
	require.Len(t, result.Components, 2)
	assert.Equal(t, "content for instruction", result.Components[0].Content)
	assert.Equal(t, "content for context", result.Components[1].Content)
	assert.Equal(t, "content for instruction\n\ncontent for context", result.FullPrompt)
	assert.Equal(t, "chosen for the detected targets", result.Rationale)

	// Explicit request fields reached the solver unchanged.
	assert.Equal(t, []models.TaskType{models.TaskComparison}, solver.lastTasks)
	assert.Equal(t, []models.BehaviorType{models.BehaviorConciseness}, solver.lastBehaviors)
	assert.Equal(t, "claude", solver.lastModel)
	require.NotNil(t, solver.lastDomain)
	assert.Equal(t, "legal", *solver.lastDomain)

	require.Len(t, hist.saved, 1)
	record := hist.saved[0]
	assert.Equal(t, "pr_abc123", record.ID)
	assert.Equal(t, "list the planets", record.UserPrompt)
	assert.Equal(t, result.FullPrompt, record.FullPrompt)
	assert.Equal(t, "claude", record.TargetModel)
	assert.Equal(t, 4.55, record.EffectivenessScore)
	assert.Len(t, record.Components, 2)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, record.CreatedAt.Location())
}

func TestOptimizeDetectedTargetsFillEmptyFields(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: defaultAnalysis()}
	solver := &fakeSolver{components: solvedStructure(), score: 1.0}
	svc := NewOptimizerService(analyzer, solver, &fakeGenerator{}, nil, fakeIDs{"pr_x"}, nil)

	svc.Optimize(context.Background(), models.OptimizationRequest{UserPrompt: "just a prompt"})

	assert.Equal(t, []models.TaskType{models.TaskDeduction}, solver.lastTasks)
	assert.Equal(t, []models.BehaviorType{models.BehaviorPrecision}, solver.lastBehaviors)
	assert.Equal(t, models.DefaultTargetModel, solver.lastModel)
	require.NotNil(t, solver.lastDomain)
	assert.Equal(t, "code", *solver.lastDomain)
}

func TestOptimizeCacheHitSkipsSolver(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: defaultAnalysis()}
	solver := &fakeSolver{components: solvedStructure(), score: 2.0}
	svc := NewOptimizerService(analyzer, solver, &fakeGenerator{}, nil, fakeIDs{"pr_x"}, cache.New(4))
	req := models.OptimizationRequest{UserPrompt: "same prompt"}

	first := svc.Optimize(context.Background(), req)
	second := svc.Optimize(context.Background(), req)

	assert.Equal(t, 1, solver.calls)
	assert.Equal(t, first.FullPrompt, second.FullPrompt)
	// Content is generated on cache hits too.
	assert.Equal(t, "content for instruction", second.Components[0].Content)
}

func TestOptimizeAnalyzerFailureFallsBack(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("analyzer offline")}
	solver := &fakeSolver{components: solvedStructure(), score: 2.0}
	hist := &fakeHistory{}
	svc := NewOptimizerService(analyzer, solver, &fakeGenerator{}, hist, fakeIDs{"pr_x"}, nil)

	result := svc.Optimize(context.Background(), models.OptimizationRequest{UserPrompt: "what is truth"})

	require.Len(t, result.Components, 1)
	assert.Equal(t, models.ComponentInstruction, result.Components[0].Type)
	assert.Equal(t, 1, result.Components[0].Position)
	assert.Equal(t, "please respond to: what is truth", result.Components[0].Content)
	assert.Equal(t, result.Components[0].Content, result.FullPrompt)
	assert.True(t, strings.HasPrefix(result.Rationale, "Fallback"))
	assert.Equal(t, 50.0, result.EffectivenessScore)
	assert.Equal(t, 0, solver.calls)
	assert.Empty(t, hist.saved)
}

func TestOptimizeContentFailureFallsBack(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: defaultAnalysis()}
	solver := &fakeSolver{components: solvedStructure(), score: 2.0}
	hist := &fakeHistory{}
	svc := NewOptimizerService(analyzer, solver, &fakeGenerator{contentErr: errors.New("template broken")}, hist, fakeIDs{"pr_x"}, nil)

	result := svc.Optimize(context.Background(), models.OptimizationRequest{UserPrompt: "p"})

	assert.Equal(t, 50.0, result.EffectivenessScore)
	assert.Empty(t, hist.saved)
}

func TestOptimizeRationaleFailureFallsBack(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: defaultAnalysis()}
	solver := &fakeSolver{components: solvedStructure(), score: 2.0}
	svc := NewOptimizerService(analyzer, solver, &fakeGenerator{rationaleErr: errors.New("no words")}, nil, fakeIDs{"pr_x"}, nil)

	result := svc.Optimize(context.Background(), models.OptimizationRequest{UserPrompt: "p"})

	assert.Equal(t, 50.0, result.EffectivenessScore)
	assert.True(t, strings.HasPrefix(result.Rationale, "Fallback"))
}

func TestOptimizeHistoryFailureStillReturnsResult(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: defaultAnalysis()}
	solver := &fakeSolver{components: solvedStructure(), score: 3.25}
	hist := &fakeHistory{err: errors.New("db down")}
	svc := NewOptimizerService(analyzer, solver, &fakeGenerator{}, hist, fakeIDs{"pr_x"}, nil)

	result := svc.Optimize(context.Background(), models.OptimizationRequest{UserPrompt: "p"})

	assert.Equal(t, 3.25, result.EffectivenessScore)
	assert.Empty(t, hist.saved)
}

func TestAnalyzePassThrough(t *testing.T) {
	analysis := defaultAnalysis()
	svc := NewOptimizerService(&fakeAnalyzer{analysis: analysis}, &fakeSolver{}, &fakeGenerator{}, nil, fakeIDs{"pr_x"}, nil)

	got, err := svc.Analyze(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Same(t, analysis, got)
}

func TestProvideFeedbackAppliesAndClearsCache(t *testing.T) {
	store := efficacy.NewStore(nil)
	results := cache.New(4)
	results.Put("k", solvedStructure(), 1.0)
	fb := NewFeedbackService(store, results)

	ok := fb.ProvideFeedback(context.Background(), models.ComponentInstruction, models.TaskTarget(models.TaskDeduction), 0.95)

	assert.True(t, ok)
	assert.Equal(t, 0, results.Len())
	snap := store.Snapshot()
	key := models.EfficacyKey{Component: models.ComponentInstruction, Target: models.TaskTarget(models.TaskDeduction)}
	assert.Equal(t, 0.95, snap.ComponentEfficacy[key])
}

func TestProvideFeedbackInvalidComponentStillClearsCache(t *testing.T) {
	store := efficacy.NewStore(nil)
	results := cache.New(4)
	results.Put("k", solvedStructure(), 1.0)
	fb := NewFeedbackService(store, results)

	ok := fb.ProvideFeedback(context.Background(), models.ComponentType("banana"), models.TaskTarget(models.TaskDeduction), 0.5)

	assert.False(t, ok)
	assert.Equal(t, 0, results.Len())
}
