package models

import (
	"time"
)

// PromptComponent is one placed building block of an optimized prompt.
// Positions are 1-based and unique within a result.
type PromptComponent struct {
	Type     ComponentType `json:"type"`
	Content  string        `json:"content"`
	Position int           `json:"position"`
}

// OptimizedPrompt is the result of a structure optimization. It is immutable
// once returned: history keeps the record exactly as written and there is no
// update or delete path.
type OptimizedPrompt struct {
	Components         []PromptComponent `json:"components"`
	FullPrompt         string            `json:"full_prompt"`
	Rationale          string            `json:"rationale"`
	EffectivenessScore float64           `json:"effectiveness_score"`
}

// DefaultTargetModel is assumed when a request does not name a model.
const DefaultTargetModel = "gpt-4"

// OptimizationRequest carries everything the optimizer needs for one run.
// Empty task or behavior lists are filled from prompt analysis.
type OptimizationRequest struct {
	UserPrompt      string         `json:"user_prompt"`
	TargetTasks     []TaskType     `json:"target_tasks,omitempty"`
	TargetBehaviors []BehaviorType `json:"target_behaviors,omitempty"`
	TargetModel     string         `json:"target_model,omitempty"`
	Domain          *string        `json:"domain,omitempty"`
}

// Model returns the requested target model or the default.
func (r OptimizationRequest) Model() string {
	if r.TargetModel == "" {
		return DefaultTargetModel
	}
	return r.TargetModel
}

// PromptAnalysis is the deterministic reading of a raw prompt: which tasks
// and behaviors it appears to call for, and an optional domain hint.
type PromptAnalysis struct {
	DetectedTasks     []TaskType     `json:"detected_tasks"`
	DetectedBehaviors []BehaviorType `json:"detected_behaviors"`
	DomainHint        *string        `json:"domain_hint,omitempty"`
	TokenEstimate     int            `json:"token_estimate"`
}

// OptimizationRecord is a persisted optimization, one row of history.
type OptimizationRecord struct {
	ID                 string            `json:"id"`
	UserPrompt         string            `json:"user_prompt"`
	FullPrompt         string            `json:"optimized_prompt"`
	TargetModel        string            `json:"target_model"`
	EffectivenessScore float64           `json:"effectiveness_score"`
	Rationale          string            `json:"rationale"`
	Components         []PromptComponent `json:"components"`
	CreatedAt          time.Time         `json:"created_at"`
}

func NewOptimizationRecord(id string, req OptimizationRequest, result *OptimizedPrompt) *OptimizationRecord {
	return &OptimizationRecord{
		ID:                 id,
		UserPrompt:         req.UserPrompt,
		FullPrompt:         result.FullPrompt,
		TargetModel:        req.Model(),
		EffectivenessScore: result.EffectivenessScore,
		Rationale:          result.Rationale,
		Components:         append([]PromptComponent(nil), result.Components...),
		CreatedAt:          time.Now().UTC(),
	}
}
