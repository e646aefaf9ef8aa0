package handlers

import (
	"net/http"

	"github.com/inferprompt/inferprompt/internal/adapters/http/dto"
	"github.com/inferprompt/inferprompt/internal/ports"
)

type OptimizeHandler struct {
	optimizer ports.Optimizer
}

func NewOptimizeHandler(optimizer ports.Optimizer) *OptimizeHandler {
	return &OptimizeHandler{optimizer: optimizer}
}

// Optimize serves POST /api/v1/optimize. The pipeline never fails outright,
// so a valid request always yields 200 with an optimized or fallback prompt.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[dto.OptimizeRequest](r, w)
	if !ok {
		return
	}

	result := h.optimizer.Optimize(r.Context(), req.ToModel())
	respondJSON(w, result, http.StatusOK)
}

// Analyze serves POST /api/v1/analyze: the analysis pass without solving.
func (h *OptimizeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[dto.AnalyzeRequest](r, w)
	if !ok {
		return
	}

	analysis, err := h.optimizer.Analyze(r.Context(), req.Text)
	if err != nil {
		respondError(w, "server_error", "Analysis failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, dto.AnalyzeResponse{
		Analysis:          analysis,
		DetectedTasks:     analysis.DetectedTasks,
		DetectedBehaviors: analysis.DetectedBehaviors,
	}, http.StatusOK)
}
