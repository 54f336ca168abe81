package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error codes used by domain errors. The HTTP layer maps them to ERR_* codes.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeCapacityExceeded  = "CAPACITY_EXCEEDED"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidState      = "INVALID_STATE"
	CodeIDConflict        = "ID_CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidInput      = "INVALID_INPUT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Is reports whether target carries the same code, so that errors.Is works
// against the sentinel values below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with per-field messages.
func NewValidationError(message string, fields map[string]string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message, Fields: fields}
}

// NewNotFoundError creates a not-found error naming the missing resource.
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewDuplicateError creates an already-exists error.
func NewDuplicateError(message string) *DomainError {
	return NewDomainError(CodeAlreadyExists, message)
}

// NewCapacityError creates an error for an exhausted identifier range.
func NewCapacityError(message string) *DomainError {
	return NewDomainError(CodeCapacityExceeded, message)
}

// NewInvalidStateError creates an error for an operation that the current state forbids.
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidState, message)
}

// NewInsufficientStockError reports the requested and available quantity for a batch.
func NewInsufficientStockError(medicineID int64, batchNo string, requested, available int64) *DomainError {
	return NewDomainError(CodeInsufficientStock,
		fmt.Sprintf("Insufficient stock for medicine %d batch %s: requested %d, available %d",
			medicineID, batchNo, requested, available))
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists     = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized      = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidState      = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrCapacityExceeded  = NewDomainError(CodeCapacityExceeded, "Identifier capacity exhausted")
	ErrIDConflict        = NewDomainError(CodeIDConflict, "Patient ID conflict, please retry")
)
