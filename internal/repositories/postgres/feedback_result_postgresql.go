package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type FeedbackResultPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackResultPostgreSQL(db *gorm.DB) repositories.FeedbackResultRepository {
	return &FeedbackResultPostgreSQL{
		db: db,
	}
}

// CreateBatch inserts all results in one statement
func (r *FeedbackResultPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, results []*models.FeedbackResult) error {
	if len(results) == 0 {
		return nil
	}

	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(&results).Error; err != nil {
		return fmt.Errorf("failed to insert feedback results: %w", err)
	}
	return nil
}

func (r *FeedbackResultPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.FeedbackResultFilters) ([]*models.FeedbackResult, error) {
	db := r.getDB(tx)
	query := db.WithContext(ctx).Model(&models.FeedbackResult{})

	if filters.FormID != nil {
		query = query.Where("form_id = ?", *filters.FormID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var results []*models.FeedbackResult
	if err := query.Order("id ASC").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback results: %w", err)
	}
	return results, nil
}

func (r *FeedbackResultPostgreSQL) GetAnsweredFormIDs(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error) {
	db := r.getDB(tx)
	var formIDs []uint
	if err := db.WithContext(ctx).
		Model(&models.FeedbackResult{}).
		Where("user_id = ?", userID).
		Distinct("form_id").
		Pluck("form_id", &formIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to get answered forms: %w", err)
	}
	return formIDs, nil
}

func (r *FeedbackResultPostgreSQL) HasAnswered(ctx context.Context, tx *gorm.DB, formID uint, userID string) (bool, error) {
	db := r.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.FeedbackResult{}).
		Where("form_id = ? AND user_id = ?", formID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check answered form: %w", err)
	}
	return count > 0, nil
}

func (r *FeedbackResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
