package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

// withURLParam injects a chi URL parameter into the request context so
// handlers can be called without a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Mock Optimizer

type mockOptimizer struct {
	lastRequest models.OptimizationRequest
	result      *models.OptimizedPrompt
	analysis    *models.PromptAnalysis
	analyzeErr  error
}

func newMockOptimizer() *mockOptimizer {
	return &mockOptimizer{
		result: &models.OptimizedPrompt{
			Components: []models.PromptComponent{
				{Type: models.ComponentInstruction, Content: "do the thing", Position: 1},
				{Type: models.ComponentContext, Content: "some context", Position: 2},
			},
			FullPrompt:         "do the thing\n\nsome context",
			Rationale:          "instruction first",
			EffectivenessScore: 4.2,
		},
		analysis: &models.PromptAnalysis{
			DetectedTasks:     []models.TaskType{models.TaskDeduction},
			DetectedBehaviors: []models.BehaviorType{models.BehaviorPrecision},
			TokenEstimate:     12,
		},
	}
}

func (m *mockOptimizer) Optimize(ctx context.Context, req models.OptimizationRequest) *models.OptimizedPrompt {
	m.lastRequest = req
	return m.result
}

func (m *mockOptimizer) Analyze(ctx context.Context, text string) (*models.PromptAnalysis, error) {
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return m.analysis, nil
}

// Mock FeedbackService

type mockFeedbackService struct {
	lastComponent models.ComponentType
	lastTarget    models.Target
	lastValue     float64
	calls         int
	ok            bool
}

func newMockFeedbackService() *mockFeedbackService {
	return &mockFeedbackService{ok: true}
}

func (m *mockFeedbackService) ProvideFeedback(ctx context.Context, component models.ComponentType, target models.Target, value float64) bool {
	m.calls++
	m.lastComponent = component
	m.lastTarget = target
	m.lastValue = value
	return m.ok
}

// Mock HistoryRepository

type mockHistoryRepo struct {
	records    map[string]*models.OptimizationRecord
	lastFilter ports.HistoryFilter
	listErr    error
	getErr     error
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{records: make(map[string]*models.OptimizationRecord)}
}

func (m *mockHistoryRepo) Save(ctx context.Context, record *models.OptimizationRecord) error {
	m.records[record.ID] = record
	return nil
}

func (m *mockHistoryRepo) GetByID(ctx context.Context, id string) (*models.OptimizationRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (m *mockHistoryRepo) List(ctx context.Context, filter ports.HistoryFilter) ([]*models.OptimizationRecord, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	m.lastFilter = filter
	var out []*models.OptimizationRecord
	for _, rec := range m.records {
		if filter.Model == "" || rec.TargetModel == filter.Model {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

func sampleRecord(id string) *models.OptimizationRecord {
	return &models.OptimizationRecord{
		ID:                 id,
		UserPrompt:         "explain caching",
		FullPrompt:         "full prompt text",
		TargetModel:        "gpt-4",
		EffectivenessScore: 3.5,
		Rationale:          "context before examples",
		Components: []models.PromptComponent{
			{Type: models.ComponentInstruction, Content: "explain", Position: 1},
		},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}
