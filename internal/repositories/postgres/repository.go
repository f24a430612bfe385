package postgres

import (
	"context"

	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db       *gorm.DB
	form     repositories.FeedbackFormRepository
	question repositories.FeedbackQuestionRepository
	result   repositories.FeedbackResultRepository
	audit    repositories.AuditRepository
}

// NewRepository wires every table accessor onto the same connection
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:       db,
		form:     NewFeedbackFormPostgreSQL(db),
		question: NewFeedbackQuestionPostgreSQL(db),
		result:   NewFeedbackResultPostgreSQL(db),
		audit:    NewAuditPostgreSQL(db),
	}
}

func (r *repository) FeedbackForm() repositories.FeedbackFormRepository {
	return r.form
}

func (r *repository) FeedbackQuestion() repositories.FeedbackQuestionRepository {
	return r.question
}

func (r *repository) FeedbackResult() repositories.FeedbackResultRepository {
	return r.result
}

func (r *repository) Audit() repositories.AuditRepository {
	return r.audit
}

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
