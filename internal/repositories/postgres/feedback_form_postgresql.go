package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type FeedbackFormPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackFormPostgreSQL(db *gorm.DB) repositories.FeedbackFormRepository {
	return &FeedbackFormPostgreSQL{
		db: db,
	}
}

// GetByID retrieves a form by ID without its questions
func (f *FeedbackFormPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FeedbackForm, error) {
	db := f.getDB(tx)
	var form models.FeedbackForm
	if err := db.WithContext(ctx).First(&form, id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// List retrieves every form in id order
func (f *FeedbackFormPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.FeedbackForm, error) {
	db := f.getDB(tx)
	var forms []*models.FeedbackForm
	if err := db.WithContext(ctx).Order("id ASC").Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback forms: %w", err)
	}
	return forms, nil
}

func (f *FeedbackFormPostgreSQL) GetTopExcluding(ctx context.Context, tx *gorm.DB, excludeIDs []uint) (*models.FeedbackForm, error) {
	db := f.getDB(tx)
	query := db.WithContext(ctx).Model(&models.FeedbackForm{})

	// NOT IN () would render as NOT IN (NULL) and match nothing
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var form models.FeedbackForm
	if err := query.Order("priority DESC").Order("id ASC").First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (f *FeedbackFormPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}
