package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/strefethen/sonos-transport/internal/sonos/soap"
)

// =============================================================================
// Error Codes
// =============================================================================

type ErrorCode string

const (
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidationError   ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrorCodeSonosTimeout      ErrorCode = "SONOS_TIMEOUT"
	ErrorCodeSonosUnreachable  ErrorCode = "SONOS_UNREACHABLE"
	ErrorCodeSonosRejected     ErrorCode = "SONOS_REJECTED"
	ErrorCodeSonosDecodeFailed ErrorCode = "SONOS_DECODE_FAILED"
	ErrorCodeInvalidSchedule   ErrorCode = "INVALID_SCHEDULE"
)

// =============================================================================
// Stripe API Error Types
// =============================================================================

// ErrorType categorizes errors following Stripe API conventions.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates invalid parameters, missing required fields, etc.
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeAPIError indicates an internal API error or a failing device.
	ErrorTypeAPIError ErrorType = "api_error"
)

// StripeErrorBody is the Stripe-style error payload.
// Format: {"type": "invalid_request_error", "code": "NOT_FOUND", "message": "..."}
type StripeErrorBody struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// AppError is the base error type for HTTP responses.
type AppError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
}

func (err *AppError) Error() string {
	return err.Message
}

// StripeErrorBody returns the error in Stripe API format.
func (err *AppError) StripeErrorBody() StripeErrorBody {
	errType := ErrorTypeAPIError
	if err.StatusCode >= 400 && err.StatusCode < 500 {
		errType = ErrorTypeInvalidRequest
	}

	return StripeErrorBody{
		Type:    errType,
		Code:    string(err.Code),
		Message: err.Message,
		Details: err.Details,
	}
}

func NewAppError(code ErrorCode, message string, statusCode int, details map[string]any) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

func NewValidationError(message string, details map[string]any) *AppError {
	return NewAppError(ErrorCodeValidationError, message, http.StatusBadRequest, details)
}

func NewNotFoundError(message string, details map[string]any) *AppError {
	return NewAppError(ErrorCodeNotFound, message, http.StatusNotFound, details)
}

func NewInternalError(message string) *AppError {
	return NewAppError(ErrorCodeInternalError, message, http.StatusInternalServerError, nil)
}

// FromSoap maps the error kinds of the SOAP layer onto API errors. Anything
// it does not recognize becomes an internal error.
func FromSoap(err error) *AppError {
	var invalid *soap.InvalidArgumentError
	var fault *soap.DeviceFault
	var decodeErr *soap.DecodeError
	var transportErr *soap.TransportError

	switch {
	case errors.As(err, &invalid):
		return NewValidationError(invalid.Error(), map[string]any{
			"field": invalid.Field,
		})
	case errors.As(err, &fault):
		return NewAppError(ErrorCodeSonosRejected,
			fmt.Sprintf("Sonos rejected %s: %s", fault.Action, fault.Description),
			http.StatusBadGateway,
			map[string]any{
				"action":     fault.Action,
				"upnp_error": fault.Code,
			})
	case errors.As(err, &decodeErr):
		return NewAppError(ErrorCodeSonosDecodeFailed, decodeErr.Error(), http.StatusBadGateway, map[string]any{
			"action": decodeErr.Action,
			"field":  decodeErr.Field,
		})
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return NewAppError(ErrorCodeSonosTimeout, transportErr.Error(), http.StatusGatewayTimeout, nil)
		}
		details := map[string]any{"action": transportErr.Action}
		if transportErr.Status != 0 {
			details["http_status"] = transportErr.Status
		}
		return NewAppError(ErrorCodeSonosUnreachable, transportErr.Error(), http.StatusServiceUnavailable, details)
	}
	return EnsureAppError(err)
}

// EnsureAppError converts an arbitrary error into an AppError.
func EnsureAppError(err error) *AppError {
	if err == nil {
		return NewInternalError("Unknown error")
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal server error")
}
