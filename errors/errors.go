package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// AppError is the application error returned across the HTTP boundary
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the raw cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal server error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_NOT_FOUND,
		Message:   fmt.Sprintf("%s not found", resource),
		Timestamp: time.Now(),
	}
}

func ErrPermissionDenied(action string) AppError {
	return AppError{
		HTTPCode:  http.StatusForbidden,
		Code:      ErrorCode_PERMISSION_DENIED,
		Message:   fmt.Sprintf("Permission denied: %s", action),
		Timestamp: time.Now(),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_UNAUTHENTICATED,
		Message:   "Authentication required",
		Timestamp: time.Now(),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_PAYLOAD,
		Message:   "Invalid payload",
		Timestamp: time.Now(),
	}
}

func ErrInvalidSignature() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_TRANSCRIPT_INVALID_SIGNATURE,
		Message:   "Invalid webhook signature",
		Timestamp: time.Now(),
	}
}

// Integration Errors
func ErrIntegrationAuthFailed(service string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_INTEGRATION_AUTH_FAILED,
		Message:   fmt.Sprintf("%s rejected the stored credential", service),
		Timestamp: time.Now(),
	}
}

func ErrExternalAPIFailed(service string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_INTEGRATION_EXTERNAL_API_FAILED,
		Message:   fmt.Sprintf("External API call failed: %s", service),
		Timestamp: time.Now(),
	}
}

func ErrNotConfigured(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusPreconditionFailed,
		Code:      ErrorCode_INTEGRATION_NOT_CONFIGURED,
		Message:   "Fireflies not configured. Please add your API key.",
		Timestamp: time.Now(),
	}
}

// AI Errors
func ErrMalformedResponse(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_AI_MALFORMED_RESPONSE,
		Message:   "Model response did not contain a JSON object",
		Timestamp: time.Now(),
	}
}

func ErrSchemaViolation(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_AI_SCHEMA_VIOLATION,
		Message:   "Model response violated the output contract",
		Timestamp: time.Now(),
	}
}

// Transcript Errors
func ErrAlreadySynced(externalID string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_TRANSCRIPT_ALREADY_SYNCED,
		Message:   "Transcript already analyzed",
		Timestamp: time.Now(),
	}.WithDetail("external_id", externalID)
}

func ErrTranscriptTooShort(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusUnprocessableEntity,
		Code:      ErrorCode_TRANSCRIPT_TOO_SHORT,
		Message:   "Transcript is shorter than the configured minimum duration",
		Timestamp: time.Now(),
	}
}

// FromDomain maps a wrapped domain sentinel to its AppError.
// Errors that are already AppError pass through unchanged.
func FromDomain(err error) AppError {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, entities.ErrInvalidInput):
		e := ErrInvalidArgument(err.Error())
		e.Raw = err
		return e
	case stdErrors.Is(err, entities.ErrAuth):
		return ErrIntegrationAuthFailed("Fireflies", err)
	case stdErrors.Is(err, entities.ErrNotConfigured):
		return ErrNotConfigured(err)
	case stdErrors.Is(err, entities.ErrNotFound):
		e := ErrNotFound(sentinelDetail(err, entities.ErrNotFound, "Resource"))
		e.Raw = err
		return e
	case stdErrors.Is(err, entities.ErrForbidden):
		e := ErrPermissionDenied("members belong to different accounts")
		e.Raw = err
		return e
	case stdErrors.Is(err, entities.ErrAlreadySynced):
		e := ErrAlreadySynced("")
		e.Raw = err
		return e
	case stdErrors.Is(err, entities.ErrBelowMinimumDuration):
		return ErrTranscriptTooShort(err)
	case stdErrors.Is(err, entities.ErrMalformedResponse):
		return ErrMalformedResponse(err)
	case stdErrors.Is(err, entities.ErrSchemaViolation):
		return ErrSchemaViolation(err)
	case stdErrors.Is(err, entities.ErrUpstream):
		return ErrExternalAPIFailed("upstream", err)
	default:
		return ErrInternal(err)
	}
}

// sentinelDetail returns the text wrapped after "<sentinel>: ", or fallback
// when the error carries no detail.
func sentinelDetail(err, sentinel error, fallback string) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		if detail := strings.TrimSpace(msg[i+len(prefix):]); detail != "" {
			return detail
		}
	}
	return fallback
}
