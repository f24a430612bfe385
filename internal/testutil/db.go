// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/SAP-F-2025/feedback-service/internal/codec"
	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/pkg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated SQLite database private to the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Each connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, pkg.AutoMigrate(db))
	return db
}

// CreateForm inserts a form and its questions
func CreateForm(t *testing.T, db *gorm.DB, form *models.FeedbackForm, questions ...*models.FeedbackFormQuestion) *models.FeedbackForm {
	t.Helper()

	require.NoError(t, db.Create(form).Error)
	for _, q := range questions {
		q.FormID = form.ID
		require.NoError(t, db.Create(q).Error)
	}
	return form
}

func OpenTextQuestion(id uint, text string, priority int) *models.FeedbackFormQuestion {
	return &models.FeedbackFormQuestion{
		ID:       id,
		Question: text,
		Type:     models.QuestionOpenText,
		Priority: priority,
	}
}

func ChoiceQuestion(id uint, qType models.QuestionType, text string, priority int, options ...codec.Option) *models.FeedbackFormQuestion {
	return &models.FeedbackFormQuestion{
		ID:       id,
		Question: text,
		Type:     qType,
		Priority: priority,
		Options:  codec.Encode(options),
	}
}

type Answer struct {
	Question uint
	Answer   string
}

// CreateAnswers inserts raw result rows for userID in the given order
func CreateAnswers(t *testing.T, db *gorm.DB, userID string, formID uint, answers ...Answer) {
	t.Helper()

	for _, a := range answers {
		require.NoError(t, db.Create(&models.FeedbackResult{
			FormID:     formID,
			QuestionID: a.Question,
			UserID:     userID,
			Answer:     a.Answer,
		}).Error)
	}
}

// Results returns every stored result in insertion order
func Results(t *testing.T, db *gorm.DB) []models.FeedbackResult {
	t.Helper()

	var results []models.FeedbackResult
	require.NoError(t, db.Order("id ASC").Find(&results).Error)
	return results
}
