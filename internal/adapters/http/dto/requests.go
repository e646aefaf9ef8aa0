package dto

import (
	"github.com/inferprompt/inferprompt/internal/domain/models"
)

// OptimizeRequest is the body of POST /api/v1/optimize. Task and behavior
// lists may be empty; the analyzer fills them from the prompt text.
type OptimizeRequest struct {
	UserPrompt      string   `json:"user_prompt" validate:"required,min=1,max=10000" jsonschema:"description=The original user prompt"`
	TargetTasks     []string `json:"target_tasks,omitempty" validate:"dive,oneof=deduction induction abduction comparison counterfactual" jsonschema:"description=Target reasoning tasks"`
	TargetBehaviors []string `json:"target_behaviors,omitempty" validate:"dive,oneof=precision creativity step_by_step conciseness error_checking" jsonschema:"description=Desired output behaviors"`
	TargetModel     string   `json:"target_model,omitempty" validate:"max=100" jsonschema:"description=Target LLM to optimize for"`
	Domain          *string  `json:"domain,omitempty" validate:"omitempty,max=100" jsonschema:"description=Specific domain context"`
}

// ToModel converts a validated request into the domain request. Values that
// fail enum parsing are dropped; validation has already rejected them.
func (r OptimizeRequest) ToModel() models.OptimizationRequest {
	req := models.OptimizationRequest{
		UserPrompt:  r.UserPrompt,
		TargetModel: r.TargetModel,
		Domain:      r.Domain,
	}
	for _, t := range r.TargetTasks {
		if task, err := models.ParseTaskType(t); err == nil {
			req.TargetTasks = append(req.TargetTasks, task)
		}
	}
	for _, b := range r.TargetBehaviors {
		if behavior, err := models.ParseBehaviorType(b); err == nil {
			req.TargetBehaviors = append(req.TargetBehaviors, behavior)
		}
	}
	return req
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,min=1,max=10000" jsonschema:"description=Prompt text to analyze"`
}

// FeedbackRequest is the body of POST /api/v1/feedback. Exactly one of
// task_type or behavior_type names the target; the handler enforces the
// exclusivity.
type FeedbackRequest struct {
	ComponentType string  `json:"component_type" validate:"required,oneof=instruction context example constraint output_format" jsonschema:"description=Component the feedback is about"`
	TaskType      string  `json:"task_type,omitempty" validate:"omitempty,oneof=deduction induction abduction comparison counterfactual" jsonschema:"description=Reasoning task target"`
	BehaviorType  string  `json:"behavior_type,omitempty" validate:"omitempty,oneof=precision creativity step_by_step conciseness error_checking" jsonschema:"description=Output behavior target"`
	Effectiveness float64 `json:"effectiveness" validate:"gte=0,lte=1" jsonschema:"description=Observed effectiveness between 0 and 1"`
}
