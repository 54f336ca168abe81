package dto

import "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"requestId,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewPageResponse unwraps a page into items plus pagination meta
func NewPageResponse[T any](p *shared.Paginated[T]) Response {
	return Response{
		Success: true,
		Data:    p.Items,
		Meta: &Meta{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
			HasMore:    p.HasMore,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, RequestID: requestID},
	}
}

// NewValidationErrorResponse creates a validation error response with per-field messages
func NewValidationErrorResponse(message, requestID string, fields map[string]string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Fields:    fields,
		},
	}
}

// ListQuery holds the common pagination query parameters
type ListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search" binding:"omitempty,max=100"`
	Name   string `form:"name" binding:"omitempty,max=100"`
}

// Filter converts the query into a normalized domain filter
func (q ListQuery) Filter() shared.Filter {
	return shared.Filter{Page: q.Page, Limit: q.Limit, Search: q.Search, Name: q.Name}.Normalize()
}
