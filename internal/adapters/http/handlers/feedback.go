package handlers

import (
	"net/http"

	"github.com/inferprompt/inferprompt/internal/adapters/http/dto"
	"github.com/inferprompt/inferprompt/internal/domain/models"
	"github.com/inferprompt/inferprompt/internal/ports"
)

type FeedbackHandler struct {
	feedback ports.FeedbackService
}

func NewFeedbackHandler(feedback ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Submit serves POST /api/v1/feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[dto.FeedbackRequest](r, w)
	if !ok {
		return
	}

	if (req.TaskType == "") == (req.BehaviorType == "") {
		respondError(w, "validation_error",
			"Exactly one of task_type or behavior_type is required", http.StatusBadRequest)
		return
	}

	// Enum validity is guaranteed by the request tags; parse errors here
	// would mean the tags and the domain enums drifted apart.
	component, err := models.ParseComponentType(req.ComponentType)
	if err != nil {
		respondError(w, "validation_error", err.Error(), http.StatusBadRequest)
		return
	}

	var target models.Target
	if req.TaskType != "" {
		task, err := models.ParseTaskType(req.TaskType)
		if err != nil {
			respondError(w, "validation_error", err.Error(), http.StatusBadRequest)
			return
		}
		target = models.TaskTarget(task)
	} else {
		behavior, err := models.ParseBehaviorType(req.BehaviorType)
		if err != nil {
			respondError(w, "validation_error", err.Error(), http.StatusBadRequest)
			return
		}
		target = models.BehaviorTarget(behavior)
	}

	if !h.feedback.ProvideFeedback(r.Context(), component, target, req.Effectiveness) {
		respondJSON(w, dto.FeedbackResponse{
			Status:  "error",
			Message: "Feedback could not be recorded",
		}, http.StatusInternalServerError)
		return
	}

	respondJSON(w, dto.FeedbackResponse{
		Status:  "success",
		Message: "Feedback recorded",
	}, http.StatusOK)
}
