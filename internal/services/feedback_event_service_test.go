package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/feedback-service/internal/events"
	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackEventService_PublishEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mockPublisher := events.NewMockEventPublisher(logger)
	service := NewFeedbackEventService(mockPublisher, logger)
	ctx := context.Background()

	t.Run("NotifyFeedbackSubmitted", func(t *testing.T) {
		form := &models.FeedbackForm{ID: 7, Name: "Course feedback"}
		results := []*models.FeedbackResult{
			{QuestionID: 1, Answer: "1"},
			{QuestionID: 2, Answer: models.NoAnswer},
			{QuestionID: 3, Answer: "Great"},
		}

		require.NoError(t, service.NotifyFeedbackSubmitted(ctx, form, "student@uni.cl", results))

		published := mockPublisher.GetPublishedEvents()
		require.Len(t, published, 1)

		event := published[0]
		assert.Equal(t, events.EventFeedbackSubmitted, event.Type)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, "feedback-service", event.Source)
		assert.Equal(t, "1.0", event.Version)
		assert.False(t, event.Timestamp.IsZero())

		data, ok := event.Data.(events.FeedbackSubmittedEvent)
		require.True(t, ok, "event data is not FeedbackSubmittedEvent")
		assert.Equal(t, uint(7), data.FormID)
		assert.Equal(t, "Course feedback", data.FormName)
		assert.Equal(t, 3, data.QuestionCount)
		assert.Equal(t, 2, data.AnsweredCount)
	})

	t.Run("NotifyResultsExported", func(t *testing.T) {
		mockPublisher.ClearEvents()

		require.NoError(t, service.NotifyResultsExported(ctx, "admin@uni.cl", 12))

		published := mockPublisher.GetPublishedEvents()
		require.Len(t, published, 1)
		data, ok := published[0].Data.(events.ResultsExportedEvent)
		require.True(t, ok)
		assert.Equal(t, "admin@uni.cl", data.AdminEmail)
		assert.Equal(t, 12, data.EntryCount)
	})
}

func BenchmarkFeedbackEventService_NotifyFeedbackSubmitted(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	service := NewFeedbackEventService(events.NewMockEventPublisher(logger), logger)

	ctx := context.Background()
	form := &models.FeedbackForm{ID: 1, Name: "Benchmark"}
	results := []*models.FeedbackResult{{QuestionID: 1, Answer: "1"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := service.NotifyFeedbackSubmitted(ctx, form, "student@uni.cl", results); err != nil {
			b.Fatalf("Failed to publish event: %v", err)
		}
	}
}
