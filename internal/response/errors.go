package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/academia-backend/internal/model"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation        ErrCode = "VALIDATION_ERROR"
	ErrInvalidID         ErrCode = "INVALID_ID"
	ErrInvalidPayload    ErrCode = "INVALID_PAYLOAD"
	ErrInvalidTimeFormat ErrCode = "INVALID_TIME_FORMAT"
	ErrInvalidTimeRange  ErrCode = "INVALID_TIME_RANGE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrScheduleConflict ErrCode = "SCHEDULE_CONFLICT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
	ErrCanceled    ErrCode = "REQUEST_CANCELED"
	ErrInternal    ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidTimeFormat:
		return "Invalid time format, use HH:MM."
	case ErrInvalidTimeRange:
		return "Start time must be before end time."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists or is still in use."
	case ErrScheduleConflict:
		return "Schedule conflict detected."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrUnavailable:
		return "The service is temporarily unavailable."
	case ErrCanceled:
		return "The request was canceled."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}

// Classify maps a domain error onto an HTTP status and error code.
func Classify(err error) (int, ErrCode) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, ErrNotFound
	case errors.Is(err, model.ErrScheduleConflict):
		return http.StatusConflict, ErrScheduleConflict
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, ErrConflict
	case errors.Is(err, model.ErrInvalidFormat):
		return http.StatusBadRequest, ErrInvalidTimeFormat
	case errors.Is(err, model.ErrInvalidRange):
		return http.StatusBadRequest, ErrInvalidTimeRange
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, ErrValidation
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrUnavailable
	case errors.Is(err, context.Canceled):
		// nginx's "client closed request"; the client is gone anyway.
		return 499, ErrCanceled
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

// FromError sends the error response matching err. Domain errors carry
// their own message in the detail field; internal errors do not leak it.
func FromError(c *gin.Context, err error) {
	status, code := Classify(err)
	_ = c.Error(err)

	if code == ErrInternal || code == ErrCanceled || code == ErrUnavailable {
		Fail(c, status, code)
		return
	}
	FailWithFields(c, status, code, map[string]string{"detail": err.Error()})
}
