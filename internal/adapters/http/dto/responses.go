package dto

import (
	"time"

	"github.com/inferprompt/inferprompt/internal/domain/models"
)

// WelcomeResponse is the body of GET /.
type WelcomeResponse struct {
	Message string `json:"message"`
	Schema  string `json:"schema"`
	Version string `json:"version"`
}

// AnalyzeResponse is the body of POST /api/v1/analyze. The detected lists are
// duplicated at the top level for callers that do not want to unpack the full
// analysis.
type AnalyzeResponse struct {
	Analysis          *models.PromptAnalysis `json:"analysis"`
	DetectedTasks     []models.TaskType      `json:"detected_tasks"`
	DetectedBehaviors []models.BehaviorType  `json:"detected_behaviors"`
}

// FeedbackResponse is the body of POST /api/v1/feedback.
type FeedbackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HistoryPage is the body of GET /api/v1/history. Items carry no rationale
// or components; GET /api/v1/history/{id} returns the full record.
type HistoryPage struct {
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Items  []HistoryItem `json:"items"`
}

// HistoryItem is one row of a history listing.
type HistoryItem struct {
	ID                 string    `json:"id"`
	UserPrompt         string    `json:"user_prompt"`
	OptimizedPrompt    string    `json:"optimized_prompt"`
	TargetModel        string    `json:"target_model"`
	EffectivenessScore float64   `json:"effectiveness_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewHistoryItem projects a stored record onto the listing shape.
func NewHistoryItem(rec *models.OptimizationRecord) HistoryItem {
	return HistoryItem{
		ID:                 rec.ID,
		UserPrompt:         rec.UserPrompt,
		OptimizedPrompt:    rec.FullPrompt,
		TargetModel:        rec.TargetModel,
		EffectivenessScore: rec.EffectivenessScore,
		CreatedAt:          rec.CreatedAt,
	}
}
