package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository groups the table accessors used by the service layer.
// Every accessor method accepts an optional transaction; nil uses the default connection.
type Repository interface {
	FeedbackForm() FeedbackFormRepository
	FeedbackQuestion() FeedbackQuestionRepository
	FeedbackResult() FeedbackResultRepository
	Audit() AuditRepository

	// WithTransaction runs fn in a single database transaction.
	// The transaction is rolled back when fn returns an error.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ===== SHARED FILTER STRUCTS =====

type FeedbackResultFilters struct {
	FormID *uint   `json:"form_id"`
	UserID *string `json:"user_id"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// ===== ERROR HELPERS =====

// IsNotFoundError checks if the error comes from a lookup that matched nothing
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks if the error is a unique constraint violation.
// Requires gorm.Config.TranslateError.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
