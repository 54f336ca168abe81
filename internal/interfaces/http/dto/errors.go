package dto

import (
	"net/http"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
)

// Error codes returned in the error envelope.
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeIDConflict    = "ERR_ID_CONFLICT"
	// ErrCodeDuplicateRequest is returned when an Idempotency-Key was already used
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeCapacityExceeded  = "ERR_CAPACITY_EXCEEDED"

	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeIDConflict:       http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeCapacityExceeded:  http.StatusInsufficientStorage,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// domainCodes maps shared.DomainError codes to API error codes
var domainCodes = map[string]string{
	shared.CodeValidation:        ErrCodeValidation,
	shared.CodeInvalidInput:      ErrCodeValidation,
	shared.CodeNotFound:          ErrCodeNotFound,
	shared.CodeAlreadyExists:     ErrCodeAlreadyExists,
	shared.CodeIDConflict:        ErrCodeIDConflict,
	shared.CodeInvalidState:      ErrCodeInvalidState,
	shared.CodeInsufficientStock: ErrCodeInsufficientStock,
	shared.CodeCapacityExceeded:  ErrCodeCapacityExceeded,
	shared.CodeUnauthorized:      ErrCodeUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code, or 500 if unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromDomainCode converts a domain error code to its API code.
// Unknown codes become ERR_INTERNAL.
func FromDomainCode(code string) string {
	if apiCode, ok := domainCodes[code]; ok {
		return apiCode
	}
	return ErrCodeInternal
}
