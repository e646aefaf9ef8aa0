package domain

import "errors"

// Common domain errors
var (
	// Solver errors
	ErrSolverFailed = errors.New("structure solving failed")
	ErrNoAssignment = errors.New("no valid component assignment")

	// Efficacy errors
	ErrUnknownComponent = errors.New("unknown component type")
	ErrUnknownTarget    = errors.New("unknown efficacy target")
	ErrEfficacyPersist  = errors.New("efficacy persistence failed")

	// Generation errors
	ErrGenerationFailed = errors.New("component content generation failed")

	// Storage errors
	ErrNotFound = errors.New("resource not found")
	ErrStorage  = errors.New("storage operation failed")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrInvalidPosition = errors.New("position out of range")
)

// DomainError wraps a domain error with additional context
type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(err error, message string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
	}
}

func NewDomainErrorWithCode(err error, message, code string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}
