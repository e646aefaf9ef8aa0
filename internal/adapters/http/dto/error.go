// Package dto defines the JSON request and response shapes of the public
// API. Validation rules live on the request types as struct tags; the schema
// endpoint reflects over the same types, so tags are the single source of
// truth for the wire contract.
package dto

// ErrorResponse is the uniform error body for every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Code    int               `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewErrorResponse(err string, message string, code int) *ErrorResponse {
	return &ErrorResponse{
		Error:   err,
		Message: message,
		Code:    code,
	}
}

// WithFields attaches per-field validation messages.
func (e *ErrorResponse) WithFields(fields map[string]string) *ErrorResponse {
	e.Fields = fields
	return e
}
