package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/social-service/internal/validator"
)

// Domain errors
var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrSelfConnection      = errors.New("cannot connect to yourself")
	ErrInvalidReactionType = errors.New("invalid reaction type")
	ErrInvalidCursor       = errors.New("invalid pagination cursor")
)

// Generic errors
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// ValidationErrors is returned when a request fails field validation
type ValidationErrors = validator.ValidationErrors

type ValidationError = validator.ValidationError

func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{{
		Field:   field,
		Message: message,
		Value:   value,
	}}
}

// PermissionError describes an action the user is not allowed to take
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}
