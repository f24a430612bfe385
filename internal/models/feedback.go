package models

import (
	"time"
)

type QuestionType string

const (
	QuestionOpenText       QuestionType = "OpenText"
	QuestionSingleAnswer   QuestionType = "SingleAnswer"
	QuestionMultipleAnswer QuestionType = "MultipleAnswer"
)

// NoAnswer is stored for a question that received no valid answer
const NoAnswer = "-1"

// IsChoice reports whether answers to this type are option values
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleAnswer || t == QuestionMultipleAnswer
}

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionOpenText, QuestionSingleAnswer, QuestionMultipleAnswer:
		return true
	}
	return false
}

// FeedbackForm is a named, priority-ranked questionnaire
type FeedbackForm struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:200"`
	Priority int    `json:"priority" gorm:"not null;default:0;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []FeedbackFormQuestion `json:"questions,omitempty" gorm:"foreignKey:FormID"`
}

func (FeedbackForm) TableName() string {
	return "feedback_forms"
}

type FeedbackFormQuestion struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	FormID   uint         `json:"form_id" gorm:"not null;index"`
	Question string       `json:"question" gorm:"not null;type:text"`
	Type     QuestionType `json:"type" gorm:"not null;size:20"`
	Priority int          `json:"priority" gorm:"not null;default:0"`
	Options  string       `json:"options" gorm:"type:text"` // codec string, empty for OpenText

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FeedbackFormQuestion) TableName() string {
	return "feedback_form_questions"
}

// FeedbackResult is one user's answer to one question
type FeedbackResult struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	FormID     uint   `json:"form_id" gorm:"not null;uniqueIndex:idx_feedback_result_user_question,priority:2;index"`
	QuestionID uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_feedback_result_user_question,priority:3"`
	UserID     string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_feedback_result_user_question,priority:1"`
	Answer     string `json:"answer" gorm:"not null;type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (FeedbackResult) TableName() string {
	return "feedback_results"
}
