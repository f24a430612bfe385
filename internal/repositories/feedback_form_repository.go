package repositories

import (
	"context"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"gorm.io/gorm"
)

// FeedbackFormRepository interface for feedback form reads.
// Forms are authored outside this service.
type FeedbackFormRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FeedbackForm, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.FeedbackForm, error)

	// GetTopExcluding returns the highest priority form whose id is not in excludeIDs.
	// Ties on priority resolve to the lowest id. Returns gorm.ErrRecordNotFound when none is left.
	GetTopExcluding(ctx context.Context, tx *gorm.DB, excludeIDs []uint) (*models.FeedbackForm, error)
}
