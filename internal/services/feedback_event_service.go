package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/feedback-service/internal/events"
	"github.com/SAP-F-2025/feedback-service/internal/models"
)

// FeedbackEventService publishes domain events for other services to consume
type FeedbackEventService interface {
	NotifyFeedbackSubmitted(ctx context.Context, form *models.FeedbackForm, userEmail string, results []*models.FeedbackResult) error
	NotifyResultsExported(ctx context.Context, adminEmail string, entryCount int) error
}

type feedbackEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewFeedbackEventService(eventPublisher events.EventPublisher, logger *slog.Logger) FeedbackEventService {
	return &feedbackEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *feedbackEventService) NotifyFeedbackSubmitted(ctx context.Context, form *models.FeedbackForm, userEmail string, results []*models.FeedbackResult) error {
	answered := 0
	for _, r := range results {
		if r.Answer != models.NoAnswer {
			answered++
		}
	}

	s.logger.Info("Publishing feedback submitted event",
		"form_id", form.ID,
		"user_id", userEmail,
		"answered", answered)

	event := events.NewFeedbackSubmittedEvent(form.ID, form.Name, userEmail, len(results), answered, time.Now())
	return s.eventPublisher.PublishEvent(ctx, event)
}

func (s *feedbackEventService) NotifyResultsExported(ctx context.Context, adminEmail string, entryCount int) error {
	s.logger.Info("Publishing results exported event",
		"user_id", adminEmail,
		"entries", entryCount)

	event := events.NewResultsExportedEvent(adminEmail, entryCount, time.Now())
	return s.eventPublisher.PublishEvent(ctx, event)
}
