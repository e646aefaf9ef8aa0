package ports

import (
	"context"

	"github.com/inferprompt/inferprompt/internal/domain/models"
)

// Analyzer defines the interface for prompt analysis
type Analyzer interface {
	// Analyze derives tasks, behaviors, and an optional domain hint from raw
	// prompt text.
	Analyze(ctx context.Context, text string) (*models.PromptAnalysis, error)
}

// Generator defines the interface for component content generation
type Generator interface {
	// GenerateContent produces the text for one component, given the prompt
	// analysis and the original user prompt.
	GenerateContent(ctx context.Context, component models.ComponentType, analysis *models.PromptAnalysis, originalPrompt string) (string, error)

	// GenerateRationale explains why a structure was chosen.
	GenerateRationale(ctx context.Context, components []models.PromptComponent, analysis *models.PromptAnalysis, score float64) (string, error)

	// Assemble joins component content in position order with a blank-line
	// separator.
	Assemble(components []models.PromptComponent) string
}

// StructureSolver defines the interface for prompt structure solving
type StructureSolver interface {
	// Solve assigns components to positions for the given targets. It never
	// fails: any internal error degrades to the fixed fallback structure.
	Solve(ctx context.Context, tasks []models.TaskType, behaviors []models.BehaviorType, model string, domain *string) ([]models.PromptComponent, float64)
}

// EfficacySource provides read access to the current efficacy state
type EfficacySource interface {
	// Snapshot returns an isolated copy of the efficacy model.
	Snapshot() models.EfficacySnapshot
}

// Optimizer is the produced surface transports call into
type Optimizer interface {
	// Optimize runs the full pipeline. It never returns an error; failures
	// degrade to a fallback result.
	Optimize(ctx context.Context, req models.OptimizationRequest) *models.OptimizedPrompt

	// Analyze is a pass-through to the analyzer for the analyze endpoint.
	Analyze(ctx context.Context, text string) (*models.PromptAnalysis, error)
}

// FeedbackService records component effectiveness feedback
type FeedbackService interface {
	// ProvideFeedback applies one efficacy update and invalidates derived
	// caches. Returns false when the update fails; never panics.
	ProvideFeedback(ctx context.Context, component models.ComponentType, target models.Target, value float64) bool
}
