package repositories

import (
	"context"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"gorm.io/gorm"
)

// FeedbackResultRepository interface for stored answers. Results are insert-only.
type FeedbackResultRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, results []*models.FeedbackResult) error

	// List returns results in insertion order
	List(ctx context.Context, tx *gorm.DB, filters FeedbackResultFilters) ([]*models.FeedbackResult, error)

	// GetAnsweredFormIDs returns the distinct forms a user has any answer for
	GetAnsweredFormIDs(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error)
	HasAnswered(ctx context.Context, tx *gorm.DB, formID uint, userID string) (bool, error)
}

// AuditRepository interface for the audit trail
type AuditRepository interface {
	Create(ctx context.Context, tx *gorm.DB, log *models.AuditLog) error
}
