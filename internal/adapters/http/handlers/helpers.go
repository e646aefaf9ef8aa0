// Package handlers implements the HTTP endpoints of the optimizer API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/inferprompt/inferprompt/internal/adapters/http/dto"
)

// validate is the shared validator instance for request bodies.
var validate = validator.New()

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response.
func respondError(w http.ResponseWriter, errorType string, message string, status int) {
	respondJSON(w, dto.NewErrorResponse(errorType, message, status), status)
}

// respondValidationError writes a 400 with one message per failed field.
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = "failed on rule " + fe.Tag()
		}
	}
	resp := dto.NewErrorResponse("validation_error", "Invalid request", http.StatusBadRequest).WithFields(fields)
	respondJSON(w, resp, http.StatusBadRequest)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, name string, defaultValue int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// decodeJSON decodes and validates a JSON request body. On failure it writes
// the error response and returns false.
func decodeJSON[T any](r *http.Request, w http.ResponseWriter) (*T, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024)

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return nil, false
	}
	return &req, true
}
