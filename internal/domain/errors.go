package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrMissingWorkTitle    = NewDomainError(ErrCodeValidation, "work title is required")
	ErrMissingCategoryName = NewDomainError(ErrCodeValidation, "category name is required")
	ErrMissingEntryTitle   = NewDomainError(ErrCodeValidation, "entry title is required")
	ErrDanglingCategoryRef = NewDomainError(ErrCodeValidation, "entry references a category that does not exist")
	ErrEmptyChapter        = NewDomainError(ErrCodeValidation, "chapter content is empty")
	ErrInvalidBackup       = NewDomainError(ErrCodeValidation, "backup file contains no recognizable data")
)

// Not found errors
var (
	ErrWorkNotFound     = NewDomainError(ErrCodeNotFound, "work not found")
	ErrChapterNotFound  = NewDomainError(ErrCodeNotFound, "chapter not found")
	ErrCategoryNotFound = NewDomainError(ErrCodeNotFound, "knowledge category not found")
	ErrEntryNotFound    = NewDomainError(ErrCodeNotFound, "knowledge entry not found")
	ErrPromptNotFound   = NewDomainError(ErrCodeNotFound, "prompt template not found")
)
