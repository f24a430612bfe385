package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/feedback-service/internal/auth"
	apperrors "github.com/SAP-F-2025/feedback-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Guard errors are owned by the auth package so transports can map them directly
	ErrUnauthorized = auth.ErrUnauthorized
	ErrForbidden    = auth.ErrForbidden

	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	ErrExportFailed = errors.New("failed to render feedback export")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.Reason)
}

// Unwrap lets errors.Is match ErrForbidden
func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

func (pe *PermissionError) Extensions() map[string]interface{} {
	return ErrForbidden.Extensions()
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if the caller is missing or lacks the required role
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
