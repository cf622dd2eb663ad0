package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by stores, services and handlers.
// Callers match with errors.Is; layers wrap with fmt.Errorf("...: %w", err).
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidFormat = errors.New("invalid time format, use HH:MM")
	ErrInvalidRange  = errors.New("start time must be before end time")
	ErrValidation    = errors.New("validation failed")
	ErrInternal      = errors.New("internal error")
)

// Conflict refinements.
var (
	ErrDuplicateName     = fmt.Errorf("%w: name already taken", ErrConflict)
	ErrDuplicateRelation = fmt.Errorf("%w: relation already exists", ErrConflict)
	ErrScheduleConflict  = fmt.Errorf("%w: schedule conflict detected", ErrConflict)
)

// ErrorCode classifies err into a stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrScheduleConflict):
		return "SCHEDULE_CONFLICT"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrInvalidFormat):
		return "INVALID_TIME_FORMAT"
	case errors.Is(err, ErrInvalidRange):
		return "INVALID_TIME_RANGE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
