package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of feedback events
type EventType string

const (
	EventFeedbackSubmitted EventType = "feedback.submitted"
	EventResultsExported   EventType = "feedback.results_exported"
)

const (
	eventSource  = "feedback-service"
	eventVersion = "1.0"
)

// FeedbackEvent is the envelope for every event this service publishes
type FeedbackEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type FeedbackSubmittedEvent struct {
	FormID        uint      `json:"form_id"`
	FormName      string    `json:"form_name"`
	UserEmail     string    `json:"user_email"`
	QuestionCount int       `json:"question_count"`
	AnsweredCount int       `json:"answered_count"` // questions stored with a real answer
	SubmittedAt   time.Time `json:"submitted_at"`
}

type ResultsExportedEvent struct {
	AdminEmail string    `json:"admin_email"`
	EntryCount int       `json:"entry_count"`
	ExportedAt time.Time `json:"exported_at"`
}

func NewFeedbackSubmittedEvent(formID uint, formName, userEmail string, questionCount, answeredCount int, submittedAt time.Time) *FeedbackEvent {
	return newEvent(EventFeedbackSubmitted, FeedbackSubmittedEvent{
		FormID:        formID,
		FormName:      formName,
		UserEmail:     userEmail,
		QuestionCount: questionCount,
		AnsweredCount: answeredCount,
		SubmittedAt:   submittedAt,
	})
}

func NewResultsExportedEvent(adminEmail string, entryCount int, exportedAt time.Time) *FeedbackEvent {
	return newEvent(EventResultsExported, ResultsExportedEvent{
		AdminEmail: adminEmail,
		EntryCount: entryCount,
		ExportedAt: exportedAt,
	})
}

func newEvent(eventType EventType, data interface{}) *FeedbackEvent {
	return &FeedbackEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// GenerateEventID returns a random event id
func GenerateEventID() string {
	return uuid.NewString()
}
