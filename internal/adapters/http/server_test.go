package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inferprompt/inferprompt/internal/config"
	"github.com/inferprompt/inferprompt/internal/domain"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

type stubOptimizer struct{}

func (stubOptimizer) Optimize(ctx context.Context, req models.OptimizationRequest) *models.OptimizedPrompt {
	return &models.OptimizedPrompt{
		Components: []models.PromptComponent{
			{Type: models.ComponentInstruction, Content: "respond to: " + req.UserPrompt, Position: 1},
		},
		FullPrompt:         "respond to: " + req.UserPrompt,
		Rationale:          "single instruction",
		EffectivenessScore: 2.5,
	}
}

func (stubOptimizer) Analyze(ctx context.Context, text string) (*models.PromptAnalysis, error) {
	return &models.PromptAnalysis{
		DetectedTasks:     []models.TaskType{models.TaskDeduction},
		DetectedBehaviors: []models.BehaviorType{models.BehaviorPrecision},
		TokenEstimate:     3,
	}, nil
}

type stubFeedback struct{}

func (stubFeedback) ProvideFeedback(ctx context.Context, component models.ComponentType, target models.Target, value float64) bool {
	return true
}

type stubHistory struct{}

func (stubHistory) Save(ctx context.Context, record *models.OptimizationRecord) error {
	return nil
}

func (stubHistory) GetByID(ctx context.Context, id string) (*models.OptimizationRecord, error) {
	return nil, domain.ErrNotFound
}

func (stubHistory) List(ctx context.Context, filter ports.HistoryFilter) ([]*models.OptimizationRecord, int, error) {
	return nil, 0, nil
}

func newTestServer(mutate func(*config.Config)) *Server {
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return NewServer(cfg, "test", stubOptimizer{}, stubFeedback{}, stubHistory{}, nil)
}

func TestServer_Routes(t *testing.T) {
	server := newTestServer(nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "welcome", method: "GET", path: "/", wantStatus: http.StatusOK},
		{name: "health", method: "GET", path: "/health", wantStatus: http.StatusOK},
		{name: "detailed health", method: "GET", path: "/health/detailed", wantStatus: http.StatusOK},
		{name: "metrics", method: "GET", path: "/metrics", wantStatus: http.StatusOK},
		{
			name:       "optimize",
			method:     "POST",
			path:       "/api/v1/optimize",
			body:       `{"user_prompt":"hello"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "optimize invalid",
			method:     "POST",
			path:       "/api/v1/optimize",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "analyze",
			method:     "POST",
			path:       "/api/v1/analyze",
			body:       `{"text":"hello"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "feedback",
			method:     "POST",
			path:       "/api/v1/feedback",
			body:       `{"component_type":"instruction","task_type":"deduction","effectiveness":0.9}`,
			wantStatus: http.StatusOK,
		},
		{name: "history list", method: "GET", path: "/api/v1/history", wantStatus: http.StatusOK},
		{name: "history missing", method: "GET", path: "/api/v1/history/pr_none", wantStatus: http.StatusNotFound},
		{name: "schema", method: "GET", path: "/api/v1/schema", wantStatus: http.StatusOK},
		{name: "unknown route", method: "GET", path: "/api/v1/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rr := httptest.NewRecorder()

			server.Router().ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestServer_WelcomePayload(t *testing.T) {
	server := newTestServer(nil)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	var welcome struct {
		Message string `json:"message"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&welcome); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if welcome.Message != "Welcome to InferPrompt API" {
		t.Errorf("unexpected message %q", welcome.Message)
	}
	if welcome.Version != "test" {
		t.Errorf("expected version test, got %q", welcome.Version)
	}
}

func TestServer_APIRateLimit(t *testing.T) {
	server := newTestServer(func(cfg *config.Config) {
		cfg.Server.RateLimit = 0.001
		cfg.Server.RateBurst = 1
	})

	first := httptest.NewRecorder()
	server.Router().ServeHTTP(first, httptest.NewRequest("GET", "/api/v1/history", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	server.Router().ServeHTTP(second, httptest.NewRequest("GET", "/api/v1/history", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", second.Code)
	}

	// Endpoints outside /api/v1 are never limited.
	health := httptest.NewRecorder()
	server.Router().ServeHTTP(health, httptest.NewRequest("GET", "/health", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", health.Code)
	}
}
