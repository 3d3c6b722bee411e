package errors

import (
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates a malformed request body
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeRetrievalEmpty indicates the passage search returned no results
	ErrorTypeRetrievalEmpty ErrorType = "RETRIEVAL_EMPTY"

	// ErrorTypeGenerationEmpty indicates the language model returned no usable reply
	ErrorTypeGenerationEmpty ErrorType = "GENERATION_EMPTY"

	// ErrorTypeParse indicates the generative reply was not valid or repairable JSON
	ErrorTypeParse ErrorType = "PARSE_ERROR"

	// ErrorTypePipeline indicates an unexpected failure inside the pipeline
	ErrorTypePipeline ErrorType = "PIPELINE"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewRetrievalEmptyError creates an error for an empty passage search
func NewRetrievalEmptyError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeRetrievalEmpty,
		Message: message,
	}
}

// NewGenerationEmptyError creates an error for an empty generative reply
func NewGenerationEmptyError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeGenerationEmpty,
		Message: message,
	}
}

// NewParseError creates an error for an unparseable generative reply
func NewParseError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewPipelineError creates an error for an unexpected pipeline failure
func NewPipelineError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePipeline,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
