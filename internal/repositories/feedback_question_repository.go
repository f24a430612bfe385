package repositories

import (
	"context"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"gorm.io/gorm"
)

// FeedbackQuestionRepository interface for feedback question reads
type FeedbackQuestionRepository interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.FeedbackFormQuestion, error)

	// GetByForm returns the questions of a form, highest priority first
	GetByForm(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.FeedbackFormQuestion, error)

	List(ctx context.Context, tx *gorm.DB) ([]*models.FeedbackFormQuestion, error)
}
