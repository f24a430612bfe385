package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type FeedbackQuestionPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackQuestionPostgreSQL(db *gorm.DB) repositories.FeedbackQuestionRepository {
	return &FeedbackQuestionPostgreSQL{
		db: db,
	}
}

func (q *FeedbackQuestionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.FeedbackFormQuestion, error) {
	if len(ids) == 0 {
		return []*models.FeedbackFormQuestion{}, nil
	}

	db := q.getDB(tx)
	var questions []*models.FeedbackFormQuestion
	if err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}
	return questions, nil
}

func (q *FeedbackQuestionPostgreSQL) GetByForm(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.FeedbackFormQuestion, error) {
	db := q.getDB(tx)
	var questions []*models.FeedbackFormQuestion
	if err := db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("priority DESC").
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions for form %d: %w", formID, err)
	}
	return questions, nil
}

func (q *FeedbackQuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.FeedbackFormQuestion, error) {
	db := q.getDB(tx)
	var questions []*models.FeedbackFormQuestion
	if err := db.WithContext(ctx).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (q *FeedbackQuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}
