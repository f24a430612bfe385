package postgres

import (
	"context"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type AuditPostgreSQL struct {
	db *gorm.DB
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &AuditPostgreSQL{
		db: db,
	}
}

func (a AuditPostgreSQL) Create(ctx context.Context, tx *gorm.DB, log *models.AuditLog) error {
	db := a.getDB(tx)
	return db.WithContext(ctx).Create(log).Error
}

func (a AuditPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}
