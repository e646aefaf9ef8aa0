package handlers

import (
	"net/http"

	"github.com/inferprompt/inferprompt/internal/adapters/http/dto"
)

type RootHandler struct {
	version string
}

func NewRootHandler(version string) *RootHandler {
	return &RootHandler{version: version}
}

// Handle serves GET / with the API welcome payload.
func (h *RootHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, dto.WelcomeResponse{
		Message: "Welcome to InferPrompt API",
		Schema:  "/api/v1/schema",
		Version: h.version,
	}, http.StatusOK)
}
