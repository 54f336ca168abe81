package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FieldErrors flattens validator errors into a field path to message map,
// e.g. "items[0].quantity" -> "Must be at least 1". It returns nil for
// errors that are not validation failures.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[fieldPath(e)] = getValidationMessage(e)
	}
	return fields
}

// fieldPath drops the root struct name from the namespace
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// HandleValidationError writes a 400 for a failed bind. Malformed JSON is
// reported as ERR_INVALID_JSON, everything else as ERR_VALIDATION.
func HandleValidationError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	if fields := FieldErrors(err); fields != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewValidationErrorResponse("Request validation failed", requestID, fields))
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeInvalidJSON, "Request body is not valid JSON", requestID))
	case errors.As(err, &typeErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed", requestID,
			map[string]string{typeErr.Field: "Must be a " + typeErr.Type.String()}))
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, err.Error(), requestID))
	}
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "numeric":
		return "Must be numeric"
	default:
		return "Invalid value"
	}
}
