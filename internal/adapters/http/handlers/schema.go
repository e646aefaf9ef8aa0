package handlers

import (
	"net/http"

	"github.com/invopop/jsonschema"

	"github.com/inferprompt/inferprompt/internal/adapters/http/dto"
	"github.com/inferprompt/inferprompt/internal/domain/models"
)

// SchemaHandler serves the machine-readable API contract: JSON Schemas for
// every request and response shape, reflected once at construction.
type SchemaHandler struct {
	schemas map[string]*jsonschema.Schema
}

func NewSchemaHandler() *SchemaHandler {
	return &SchemaHandler{
		schemas: map[string]*jsonschema.Schema{
			"optimize_request":    jsonschema.Reflect(&dto.OptimizeRequest{}),
			"analyze_request":     jsonschema.Reflect(&dto.AnalyzeRequest{}),
			"feedback_request":    jsonschema.Reflect(&dto.FeedbackRequest{}),
			"optimized_prompt":    jsonschema.Reflect(&models.OptimizedPrompt{}),
			"analyze_response":    jsonschema.Reflect(&dto.AnalyzeResponse{}),
			"feedback_response":   jsonschema.Reflect(&dto.FeedbackResponse{}),
			"history_page":        jsonschema.Reflect(&dto.HistoryPage{}),
			"optimization_record": jsonschema.Reflect(&models.OptimizationRecord{}),
			"error_response":      jsonschema.Reflect(&dto.ErrorResponse{}),
		},
	}
}

// Handle serves GET /api/v1/schema.
func (h *SchemaHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.schemas, http.StatusOK)
}
