package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEventType string

const (
	AuditFeedbackSubmitted AuditEventType = "feedback_submitted"
	AuditDataExported      AuditEventType = "data_exported"
)

type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventType AuditEventType `json:"event_type" gorm:"not null;index"`

	// Actor information
	UserEmail string   `json:"user_email" gorm:"not null;size:255;index"`
	UserRole  UserRole `json:"user_role" gorm:"not null;size:20"`

	// Target information
	TargetType string `json:"target_type" gorm:"size:50;index"` // feedback_form, feedback_results
	TargetID   *uint  `json:"target_id" gorm:"index"`

	Description string         `json:"description" gorm:"not null;type:text"`
	Metadata    datatypes.JSON `json:"metadata"`

	RequestID *string `json:"request_id" gorm:"size:36"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
